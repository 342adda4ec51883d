// Package postgres реализует хранилище учетных данных на PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/ports/repositories"
	"portfolio/pkg/logger"
)

const uniqueViolation = "23505"

const userColumns = `id, full_name, email, phone, about_me, portfolio_url, github_url,
        instagram_url, x_url, facebook_url, linkedin_url,
        avatar_public_id, avatar_url, resume_public_id, resume_url,
        password_hash, reset_password_token, reset_password_expire, created_at, updated_at`

// PgxPoolInterface - подмножество pgxpool.Pool, которое реализует и pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// UserRepository реализует repositories.UserRepository.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))
}

// Create сохраняет нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "Create")

	query := `
        INSERT INTO users (full_name, email, phone, about_me, portfolio_url, github_url,
            instagram_url, x_url, facebook_url, linkedin_url,
            avatar_public_id, avatar_url, resume_public_id, resume_url, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING ` + userColumns

	avatarID, avatarURL := mediaArgs(user.Avatar)
	resumeID, resumeURL := mediaArgs(user.Resume)

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Phone,
		user.AboutMe,
		user.PortfolioURL,
		user.GithubURL,
		user.InstagramURL,
		user.XURL,
		user.FacebookURL,
		user.LinkedInURL,
		avatarID, avatarURL,
		resumeID, resumeURL,
		user.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "duplicate email", zap.String("email", user.Email))
			return nil, entities.ErrDuplicateEmail
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := r.log(ctx, "FindByID")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := r.log(ctx, "FindByEmail")

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}

// UpdateProfile перезаписывает поля профиля и ссылки на медиа.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := r.log(ctx, "UpdateProfile")

	query := `
        UPDATE users
        SET full_name = $2, email = $3, phone = $4, about_me = $5, portfolio_url = $6,
            github_url = $7, instagram_url = $8, x_url = $9, facebook_url = $10, linkedin_url = $11,
            avatar_public_id = $12, avatar_url = $13, resume_public_id = $14, resume_url = $15,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns

	avatarID, avatarURL := mediaArgs(user.Avatar)
	resumeID, resumeURL := mediaArgs(user.Resume)

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.Phone,
		user.AboutMe,
		user.PortfolioURL,
		user.GithubURL,
		user.InstagramURL,
		user.XURL,
		user.FacebookURL,
		user.LinkedInURL,
		avatarID, avatarURL,
		resumeID, resumeURL,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			log.Debug(ctx, "user not found", zap.String("id", user.ID))
			return nil, entities.ErrUserNotFound
		case isUniqueViolation(err):
			log.Debug(ctx, "duplicate email", zap.String("email", user.Email))
			return nil, entities.ErrDuplicateEmail
		}
		log.Error(ctx, "error updating user profile", zap.Error(err))
		return nil, fmt.Errorf("error updating user profile: %w", err)
	}

	return updated, nil
}

// UpdatePassword заменяет хеш пароля.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	return r.exec(ctx, "UpdatePassword", query, id, passwordHash)
}

// SetResetToken сохраняет хеш токена сброса и срок его действия.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_password_token = $2, reset_password_expire = $3 WHERE id = $1`

	return r.exec(ctx, "SetResetToken", query, id, tokenHash, expiresAt)
}

// ClearResetToken удаляет ожидающий сброс пароля.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	query := `UPDATE users SET reset_password_token = NULL, reset_password_expire = NULL WHERE id = $1`

	return r.exec(ctx, "ClearResetToken", query, id)
}

// FindByResetToken находит пользователя с действующим токеном сброса.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entities.User, error) {
	log := r.log(ctx, "FindByResetToken")

	query := `SELECT ` + userColumns + ` FROM users WHERE reset_password_token = $1 AND reset_password_expire > $2`

	user, err := scanUser(r.pool.QueryRow(ctx, query, tokenHash, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "reset token not found or expired")
			return nil, entities.ErrInvalidResetToken
		}
		log.Error(ctx, "error finding user by reset token", zap.Error(err))
		return nil, fmt.Errorf("error querying user by reset token: %w", err)
	}

	return user, nil
}

// ResetPassword атомарно заменяет пароль и гасит токен сброса.
func (r *UserRepository) ResetPassword(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) (*entities.User, error) {
	log := r.log(ctx, "ResetPassword")

	query := `
        UPDATE users
        SET password_hash = $3, reset_password_token = NULL, reset_password_expire = NULL, updated_at = NOW()
        WHERE id = $1 AND reset_password_token = $2 AND reset_password_expire > $4
        RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, tokenHash, passwordHash, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "reset token already consumed or expired", zap.String("id", id))
			return nil, entities.ErrInvalidResetToken
		}
		log.Error(ctx, "error resetting password", zap.Error(err))
		return nil, fmt.Errorf("error resetting password: %w", err)
	}

	return user, nil
}

func (r *UserRepository) exec(ctx context.Context, method, query string, args ...any) error {
	log := r.log(ctx, method)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "error executing update", zap.Error(err))
		return fmt.Errorf("error executing %s: %w", method, err)
	}

	if tag.RowsAffected() == 0 {
		log.Debug(ctx, "user not found")
		return entities.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var (
		user                entities.User
		avatarID, avatarURL pgtype.Text
		resumeID, resumeURL pgtype.Text
		resetToken          pgtype.Text
		resetExpire         pgtype.Timestamptz
	)

	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.AboutMe,
		&user.PortfolioURL,
		&user.GithubURL,
		&user.InstagramURL,
		&user.XURL,
		&user.FacebookURL,
		&user.LinkedInURL,
		&avatarID, &avatarURL,
		&resumeID, &resumeURL,
		&user.PasswordHash,
		&resetToken,
		&resetExpire,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Avatar = mediaFrom(avatarID, avatarURL)
	user.Resume = mediaFrom(resumeID, resumeURL)
	if resetToken.Valid && resetExpire.Valid {
		expire := resetExpire.Time
		user.ResetPasswordToken = resetToken.String
		user.ResetPasswordExpire = &expire
	}

	return &user, nil
}

func mediaArgs(m *entities.Media) (pgtype.Text, pgtype.Text) {
	if m == nil {
		return pgtype.Text{}, pgtype.Text{}
	}
	return pgtype.Text{String: m.PublicID, Valid: true}, pgtype.Text{String: m.URL, Valid: true}
}

func mediaFrom(id, url pgtype.Text) *entities.Media {
	if !id.Valid || !url.Valid {
		return nil
	}
	return &entities.Media{PublicID: id.String, URL: url.String}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
