// Package app содержит сценарии работы с аккаунтом владельца портфолио.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	"portfolio/internal/account/ports/api"
	"portfolio/internal/account/ports/cache"
	"portfolio/internal/account/ports/repositories"
	svc "portfolio/internal/account/ports/services"
	"portfolio/pkg/logger"
)

const (
	methodRegister          = "Register"
	methodLogin             = "Login"
	methodLogout            = "Logout"
	methodGetUser           = "GetUser"
	methodGetPortfolioOwner = "GetPortfolioOwner"
	methodUpdateProfile     = "UpdateProfile"
	methodAuthenticate      = "Authenticate"

	msgStartRegistration  = "starting user registration"
	msgFilesMissing       = "avatar or resume missing"
	msgCredentialsMissing = "email or password missing"
	msgInvalidEmailFormat = "invalid email format"
	msgEmailExists        = "user with this email already exists"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgLoginNonExistent   = "login attempt with non-existent email"
	msgInvalidPassword    = "invalid password provided"
	msgUserLoggedIn       = "user logged in successfully"
	msgUserLoggedOut      = "user logged out"
	msgOwnerNotConfigured = "portfolio owner id is not configured"
	msgOwnerCacheHit      = "portfolio owner served from cache"
	msgProfileUpdated     = "profile updated successfully"
	msgMediaDiscarded     = "uploaded media discarded"
	msgMissingToken       = "session token missing"
	msgInvalidToken       = "session token rejected"
	msgUnknownTokenUser   = "session token refers to unknown user"

	msgErrUploadAvatar   = "failed to upload avatar"
	msgErrUploadResume   = "failed to upload resume"
	msgErrHashPassword   = "failed to hash password"
	msgErrCreateUser     = "failed to create user"
	msgErrCheckExisting  = "failed to check existing user"
	msgErrGenerateToken  = "failed to generate session token"
	msgErrFindingUser    = "error finding user"
	msgErrVerifyPassword = "error verifying password"
	msgErrUpdateProfile  = "failed to update profile"
	msgErrDiscardMedia   = "failed to delete media object"
	msgErrCacheRead      = "failed to read portfolio owner from cache"
	msgErrCacheWrite     = "failed to write portfolio owner to cache"
	msgErrCacheDecode    = "failed to decode cached portfolio owner"
	msgErrCacheEvict     = "failed to evict portfolio owner from cache"

	errCtxValidating       = "validating input"
	errCtxCheckingUser     = "checking existing user"
	errCtxUploadingAvatar  = "uploading avatar"
	errCtxUploadingResume  = "uploading resume"
	errCtxHashingPassword  = "hashing password"
	errCtxCreatingUser     = "creating user"
	errCtxGeneratingToken  = "generating session token"
	errCtxFindingUser      = "finding user"
	errCtxVerifyingPass    = "verifying password"
	errCtxUpdatingProfile  = "updating profile"
	errCtxAuthenticating   = "authenticating"
	errCtxInvalidCredental = "invalid credentials"

	ownerCacheKey = "portfolio-owner:"
)

var errInvalidMedia = errors.New("media store returned no public id or url")

// AccountConfig - параметры сценариев аккаунта.
type AccountConfig struct {
	// OwnerID - идентификатор пользователя, чей профиль отдается публично.
	OwnerID       string
	OwnerCacheTTL time.Duration
}

// AccountUseCaseImpl реализует api.AccountUseCase.
type AccountUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	mediaStore  svc.MediaStore
	ownerCache  cache.Cache
	config      AccountConfig
}

// NewAccountUseCase создает сценарии аккаунта. ownerCache может быть nil.
func NewAccountUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	mediaStore svc.MediaStore,
	ownerCache cache.Cache,
	config AccountConfig,
) api.AccountUseCase {
	return &AccountUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		mediaStore:  mediaStore,
		ownerCache:  ownerCache,
		config:      config,
	}
}

// Register загружает аватар и резюме, создает пользователя и выдает сессию.
func (a *AccountUseCaseImpl) Register(ctx context.Context, input api.RegisterInput) (*api.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", input.Profile.Email))
	log.Debug(ctx, msgStartRegistration)

	if input.Avatar == nil || input.Resume == nil {
		log.Debug(ctx, msgFilesMissing)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrFilesRequired)
	}
	if input.Profile.Email == "" || input.Password == "" {
		log.Debug(ctx, msgCredentialsMissing)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrCredentialsRequired)
	}
	if err := entities.ValidateEmail(input.Profile.Email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	existing, err := a.userRepo.FindByEmail(ctx, input.Profile.Email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExisting, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, entities.ErrDuplicateEmail)
	}

	hashedPassword, err := hashPassword(ctx, a.passwordSvc, input.Password)
	if err != nil {
		return nil, err
	}

	avatar, err := a.upload(ctx, services.FolderAvatars, input.Avatar)
	if err != nil {
		log.Error(ctx, msgErrUploadAvatar, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUploadingAvatar, upstreamError(entities.ErrAvatarUpload, err))
	}

	resume, err := a.upload(ctx, services.FolderResumes, input.Resume)
	if err != nil {
		log.Error(ctx, msgErrUploadResume, zap.Error(err))
		a.discard(ctx, avatar)
		return nil, fmt.Errorf("%s: %w", errCtxUploadingResume, upstreamError(entities.ErrResumeUpload, err))
	}

	created, err := a.userRepo.Create(ctx, &entities.User{
		Profile:      input.Profile,
		Avatar:       avatar,
		Resume:       resume,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		a.discard(ctx, avatar, resume)
		if errors.Is(err, entities.ErrDuplicateEmail) {
			log.Debug(ctx, msgEmailExists)
		} else {
			log.Error(ctx, msgErrCreateUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	session, err := a.tokenSvc.GenerateSessionToken(ctx, created.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	a.evictOwner(ctx, created.ID)

	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID))
	return &api.AuthResult{User: created, Session: session}, nil
}

// Login проверяет email и пароль и выдает сессию.
func (a *AccountUseCaseImpl) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	if email == "" || password == "" {
		log.Debug(ctx, msgCredentialsMissing)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrCredentialsRequired)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredental, entities.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPass, err)
	}
	if !ok {
		log.Debug(ctx, msgInvalidPassword)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredental, entities.ErrIncorrectPassword)
	}

	session, err := a.tokenSvc.GenerateSessionToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return &api.AuthResult{User: user, Session: session}, nil
}

// Logout ничего не хранит на сервере: сессия завершается очисткой cookie.
func (a *AccountUseCaseImpl) Logout(ctx context.Context, userID string) error {
	logger.Log(ctx).Info(ctx, msgUserLoggedOut, zap.String("method", methodLogout), zap.String("userID", userID))
	return nil
}

// GetUser возвращает пользователя по идентификатору.
func (a *AccountUseCaseImpl) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUser), zap.String("userID", userID))

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrFindingUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	return user, nil
}

// GetPortfolioOwner возвращает профиль владельца портфолио, по возможности из кэша.
func (a *AccountUseCaseImpl) GetPortfolioOwner(ctx context.Context) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetPortfolioOwner), zap.String("userID", a.config.OwnerID))

	if a.config.OwnerID == "" {
		log.Warn(ctx, msgOwnerNotConfigured)
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, entities.ErrUserNotFound)
	}

	if cached := a.cachedOwner(ctx, log); cached != nil {
		log.Debug(ctx, msgOwnerCacheHit)
		return cached, nil
	}

	user, err := a.GetUser(ctx, a.config.OwnerID)
	if err != nil {
		return nil, err
	}

	if a.ownerCache != nil {
		payload, err := json.Marshal(user)
		if err == nil {
			err = a.ownerCache.Set(ctx, ownerCacheKey+a.config.OwnerID, string(payload), a.config.OwnerCacheTTL)
		}
		if err != nil {
			log.Warn(ctx, msgErrCacheWrite, zap.Error(err))
		}
	}

	return user, nil
}

// UpdateProfile применяет частичное обновление. Новые файлы загружаются до
// сохранения записи, старые удаляются только после успешного сохранения.
func (a *AccountUseCaseImpl) UpdateProfile(ctx context.Context, userID string, input api.UpdateProfileInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateProfile), zap.String("userID", userID))

	if email := input.Fields.Email; email != nil {
		if *email == "" {
			return nil, fmt.Errorf("%s: %w", errCtxValidating, entities.ErrEmailRequired)
		}
		if err := entities.ValidateEmail(*email); err != nil {
			log.Debug(ctx, msgInvalidEmailFormat)
			return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
		}
	}

	current, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := *current
	input.Fields.Apply(&merged.Profile)

	var newAvatar, newResume *entities.Media
	if input.Avatar != nil {
		newAvatar, err = a.upload(ctx, services.FolderAvatars, input.Avatar)
		if err != nil {
			log.Error(ctx, msgErrUploadAvatar, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxUploadingAvatar, upstreamError(entities.ErrAvatarUpload, err))
		}
		merged.Avatar = newAvatar
	}
	if input.Resume != nil {
		newResume, err = a.upload(ctx, services.FolderResumes, input.Resume)
		if err != nil {
			log.Error(ctx, msgErrUploadResume, zap.Error(err))
			a.discard(ctx, newAvatar)
			return nil, fmt.Errorf("%s: %w", errCtxUploadingResume, upstreamError(entities.ErrResumeUpload, err))
		}
		merged.Resume = newResume
	}

	updated, err := a.userRepo.UpdateProfile(ctx, &merged)
	if err != nil {
		a.discard(ctx, newAvatar, newResume)
		if !errors.Is(err, entities.ErrDuplicateEmail) && !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrUpdateProfile, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingProfile, err)
	}

	if newAvatar != nil {
		a.discard(ctx, current.Avatar)
	}
	if newResume != nil {
		a.discard(ctx, current.Resume)
	}
	a.evictOwner(ctx, userID)

	log.Info(ctx, msgProfileUpdated)
	return updated, nil
}

// Authenticate проверяет сессионный токен и загружает его владельца.
func (a *AccountUseCaseImpl) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate))

	if token == "" {
		log.Debug(ctx, msgMissingToken)
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, entities.ErrUnauthenticated)
	}

	userID, err := a.tokenSvc.ValidateSessionToken(ctx, token)
	if err != nil {
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxAuthenticating, entities.ErrUnauthenticated, err)
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgUnknownTokenUser, zap.String("userID", userID))
			return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, entities.ErrUnauthenticated)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	return user, nil
}

// upload загружает файл и проверяет, что хранилище вернуло пригодную ссылку.
// Непригодная ссылка удаляется.
func (a *AccountUseCaseImpl) upload(ctx context.Context, folder string, file *services.MediaFile) (*entities.Media, error) {
	media, err := a.mediaStore.Upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}
	if !media.Valid() {
		a.discard(ctx, media)
		return nil, errInvalidMedia
	}
	return media, nil
}

// discard удаляет объекты хранилища без возврата ошибки.
func (a *AccountUseCaseImpl) discard(ctx context.Context, objects ...*entities.Media) {
	for _, m := range objects {
		if m == nil || m.PublicID == "" {
			continue
		}
		if err := a.mediaStore.Delete(ctx, m.PublicID); err != nil {
			logger.Log(ctx).Warn(ctx, msgErrDiscardMedia, zap.String("publicID", m.PublicID), zap.Error(err))
			continue
		}
		logger.Log(ctx).Debug(ctx, msgMediaDiscarded, zap.String("publicID", m.PublicID))
	}
}

func (a *AccountUseCaseImpl) cachedOwner(ctx context.Context, log *logger.Logger) *entities.User {
	if a.ownerCache == nil {
		return nil
	}

	payload, err := a.ownerCache.Get(ctx, ownerCacheKey+a.config.OwnerID)
	if err != nil {
		log.Warn(ctx, msgErrCacheRead, zap.Error(err))
		return nil
	}
	if payload == "" {
		return nil
	}

	var user entities.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		log.Warn(ctx, msgErrCacheDecode, zap.Error(err))
		return nil
	}
	return &user
}

func (a *AccountUseCaseImpl) evictOwner(ctx context.Context, userID string) {
	if a.ownerCache == nil || userID != a.config.OwnerID {
		return
	}
	if err := a.ownerCache.Delete(ctx, ownerCacheKey+userID); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrCacheEvict, zap.Error(err))
	}
}

func hashPassword(ctx context.Context, passwordSvc svc.PasswordService, password string) (string, error) {
	hashedPassword, err := passwordSvc.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			return "", fmt.Errorf("%s: %w", errCtxHashingPassword, entities.ErrPasswordInvalid)
		}
		logger.Log(ctx).Error(ctx, msgErrHashPassword, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}
	return hashedPassword, nil
}

// upstreamError сохраняет публичное сообщение kind и причину cause, если она есть.
func upstreamError(kind *entities.AccountError, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
