package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	"portfolio/internal/account/ports/api"
	"portfolio/internal/account/ports/repositories"
	svc "portfolio/internal/account/ports/services"
	"portfolio/pkg/logger"
)

const (
	methodUpdatePassword = "UpdatePassword"
	methodForgotPassword = "ForgotPassword"
	methodResetPassword  = "ResetPassword"

	msgPasswordFieldsMissing = "password fields missing"
	msgCurrentPasswordWrong  = "current password is incorrect"
	msgNewPasswordMismatch   = "new passwords do not match"
	msgPasswordUpdated       = "password updated successfully"
	msgForgotEmailMissing    = "forgot password without email"
	msgForgotUnknownEmail    = "forgot password for unknown email"
	msgResetEmailSent        = "password reset email sent"
	msgResetReplaced         = "pending reset token replaced"
	msgResetTokenRejected    = "reset token rejected"
	msgResetPasswordMismatch = "reset passwords do not match"
	msgPasswordReset         = "password reset successfully"

	msgErrUpdatePassword = "failed to update password"
	msgErrGenerateReset  = "failed to generate reset token"
	msgErrStoreReset     = "failed to store reset token"
	msgErrRenderMail     = "failed to render reset email"
	msgErrSendMail       = "failed to send reset email"
	msgErrClearReset     = "failed to clear reset token"
	msgErrFindByReset    = "error finding user by reset token"
	msgErrResetPassword  = "failed to reset password"

	errCtxUpdatingPassword = "updating password"
	errCtxGeneratingReset  = "generating reset token"
	errCtxStoringReset     = "storing reset token"
	errCtxRenderingMail    = "rendering reset email"
	errCtxSendingMail      = "sending reset email"
	errCtxCheckingReset    = "checking reset token"
	errCtxResettingPass    = "resetting password"

	resetPathPrefix = "/password/reset/"
)

// PasswordConfig - параметры сброса пароля.
type PasswordConfig struct {
	// DashboardURL - адрес панели, к которому добавляется путь сброса.
	DashboardURL string
}

// PasswordUseCaseImpl реализует api.PasswordUseCase.
type PasswordUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	resetTokens svc.ResetTokenGenerator
	notifier    svc.Notifier
	renderer    svc.MessageRenderer
	config      PasswordConfig
	now         func() time.Time
}

// PasswordOption настраивает PasswordUseCaseImpl.
type PasswordOption func(*PasswordUseCaseImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) PasswordOption {
	return func(p *PasswordUseCaseImpl) {
		p.now = now
	}
}

// NewPasswordUseCase создает сценарии смены и сброса пароля.
func NewPasswordUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	resetTokens svc.ResetTokenGenerator,
	notifier svc.Notifier,
	renderer svc.MessageRenderer,
	config PasswordConfig,
	opts ...PasswordOption,
) api.PasswordUseCase {
	p := &PasswordUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		resetTokens: resetTokens,
		notifier:    notifier,
		renderer:    renderer,
		config:      config,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UpdatePassword меняет пароль после проверки текущего. Новая сессия не выдается.
func (p *PasswordUseCaseImpl) UpdatePassword(ctx context.Context, userID string, input api.UpdatePasswordInput) error {
	log := logger.Log(ctx).With(zap.String("method", methodUpdatePassword), zap.String("userID", userID))

	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmNewPassword == "" {
		log.Debug(ctx, msgPasswordFieldsMissing)
		return fmt.Errorf("%s: %w", errCtxValidating, entities.ErrPasswordFields)
	}

	user, err := p.userRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrFindingUser, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := p.passwordSvc.Verify(ctx, input.CurrentPassword, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyingPass, err)
	}
	if !ok {
		log.Debug(ctx, msgCurrentPasswordWrong)
		return fmt.Errorf("%s: %w", errCtxVerifyingPass, entities.ErrCurrentPassword)
	}

	if input.NewPassword != input.ConfirmNewPassword {
		log.Debug(ctx, msgNewPasswordMismatch)
		return fmt.Errorf("%s: %w", errCtxValidating, entities.ErrNewPasswordMismatch)
	}

	hashedPassword, err := hashPassword(ctx, p.passwordSvc, input.NewPassword)
	if err != nil {
		return err
	}

	if err := p.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		log.Error(ctx, msgErrUpdatePassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxUpdatingPassword, err)
	}

	log.Info(ctx, msgPasswordUpdated)
	return nil
}

// ForgotPassword сохраняет хеш нового токена сброса и отправляет письмо со ссылкой.
// Если письмо не доставлено, состояние сброса откатывается.
func (p *PasswordUseCaseImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodForgotPassword), zap.String("email", email))

	if email == "" {
		log.Debug(ctx, msgForgotEmailMissing)
		return "", fmt.Errorf("%s: %w", errCtxValidating, entities.ErrEmailRequired)
	}

	user, err := p.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgForgotUnknownEmail)
		} else {
			log.Error(ctx, msgErrFindingUser, zap.Error(err))
		}
		return "", fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if user.ResetPending(p.now()) {
		log.Debug(ctx, msgResetReplaced, zap.String("userID", user.ID))
	}

	token, err := p.resetTokens.Generate(ctx)
	if err != nil {
		log.Error(ctx, msgErrGenerateReset, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxGeneratingReset, err)
	}

	if err := p.userRepo.SetResetToken(ctx, user.ID, token.Hash, token.ExpiresAt); err != nil {
		log.Error(ctx, msgErrStoreReset, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxStoringReset, err)
	}

	msg, err := p.renderer.Render(services.TemplatePasswordReset, services.PasswordResetData{
		FullName: user.FullName,
		Email:    user.Email,
		ResetURL: p.resetURL(token.Raw),
	})
	if err != nil {
		log.Error(ctx, msgErrRenderMail, zap.Error(err))
		p.clearReset(ctx, log, user.ID)
		return "", fmt.Errorf("%s: %w", errCtxRenderingMail, err)
	}
	msg.To = user.Email

	if err := p.notifier.Send(ctx, *msg); err != nil {
		log.Error(ctx, msgErrSendMail, zap.Error(err))
		p.clearReset(ctx, log, user.ID)
		return "", fmt.Errorf("%s: %w", errCtxSendingMail, upstreamError(entities.ErrEmailDelivery, err))
	}

	log.Info(ctx, msgResetEmailSent, zap.String("userID", user.ID))
	return user.Email, nil
}

// ResetPassword устанавливает новый пароль по токену из письма и выдает сессию.
// Токен погашается условным обновлением, поэтому повторное использование отклоняется.
func (p *PasswordUseCaseImpl) ResetPassword(ctx context.Context, input api.ResetPasswordInput) (*api.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodResetPassword))

	if input.Token == "" {
		log.Debug(ctx, msgResetTokenRejected)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingReset, entities.ErrInvalidResetToken)
	}

	tokenHash := p.resetTokens.Hash(input.Token)

	user, err := p.userRepo.FindByResetToken(ctx, tokenHash, p.now())
	if err != nil {
		if errors.Is(err, entities.ErrInvalidResetToken) {
			log.Debug(ctx, msgResetTokenRejected)
		} else {
			log.Error(ctx, msgErrFindByReset, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCheckingReset, err)
	}
	log = log.With(zap.String("userID", user.ID))

	if input.Password == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrPasswordRequired)
	}
	if input.Password != input.ConfirmPassword {
		log.Debug(ctx, msgResetPasswordMismatch)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrPasswordMismatch)
	}

	hashedPassword, err := hashPassword(ctx, p.passwordSvc, input.Password)
	if err != nil {
		return nil, err
	}

	updated, err := p.userRepo.ResetPassword(ctx, user.ID, tokenHash, hashedPassword, p.now())
	if err != nil {
		if errors.Is(err, entities.ErrInvalidResetToken) {
			log.Debug(ctx, msgResetTokenRejected)
		} else {
			log.Error(ctx, msgErrResetPassword, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxResettingPass, err)
	}

	session, err := p.tokenSvc.GenerateSessionToken(ctx, updated.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	log.Info(ctx, msgPasswordReset)
	return &api.AuthResult{User: updated, Session: session}, nil
}

func (p *PasswordUseCaseImpl) clearReset(ctx context.Context, log *logger.Logger, userID string) {
	if err := p.userRepo.ClearResetToken(ctx, userID); err != nil {
		log.Error(ctx, msgErrClearReset, zap.Error(err))
	}
}

func (p *PasswordUseCaseImpl) resetURL(raw string) string {
	return strings.TrimRight(p.config.DashboardURL, "/") + resetPathPrefix + raw
}
