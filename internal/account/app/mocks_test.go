package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
)

var (
	ErrDatabaseOperation = errors.New("database error")
	ErrStorageOperation  = errors.New("storage error")
	ErrSMTPOperation     = errors.New("smtp error")
)

type mockUserRepository struct {
	mock.Mock
}

func userOrNil(args mock.Arguments) (*entities.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	return userOrNil(m.Called(ctx, user))
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return userOrNil(m.Called(ctx, email))
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *entities.User) (*entities.User, error) {
	return userOrNil(m.Called(ctx, user))
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, id, tokenHash, expiresAt).Error(0)
}

func (m *mockUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entities.User, error) {
	return userOrNil(m.Called(ctx, tokenHash, now))
}

func (m *mockUserRepository) ResetPassword(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) (*entities.User, error) {
	return userOrNil(m.Called(ctx, id, tokenHash, passwordHash, now))
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateSessionToken(ctx context.Context, userID string) (*services.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *mockTokenService) ValidateSessionToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, folder string, file *services.MediaFile) (*entities.Media, error) {
	args := m.Called(ctx, folder, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Media), args.Error(1)
}

func (m *mockMediaStore) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Close() error {
	return m.Called().Error(0)
}

// recordingNotifier запоминает отправленные письма.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []services.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg services.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) messages() []services.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]services.Message(nil), n.sent...)
}

// memoryUserRepository - хранилище пользователей в памяти с той же семантикой
// сброса пароля, что и у postgres.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newMemoryUserRepository(users ...*entities.User) *memoryUserRepository {
	r := &memoryUserRepository{users: make(map[string]*entities.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *memoryUserRepository) get(id string) *entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (r *memoryUserRepository) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, entities.ErrDuplicateEmail
		}
	}
	cp := *user
	cp.ID = uuid.NewString()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	if u := r.get(id); u != nil {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	u.Profile, u.Avatar, u.Resume = user.Profile, user.Avatar, user.Resume
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memoryUserRepository) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = tokenHash, &expiresAt
	return nil
}

func (r *memoryUserRepository) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = "", nil
	return nil
}

func (r *memoryUserRepository) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPending(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrInvalidResetToken
}

func (r *memoryUserRepository) ResetPassword(_ context.Context, id, tokenHash, passwordHash string, now time.Time) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetPasswordToken != tokenHash || !u.ResetPending(now) {
		return nil, entities.ErrInvalidResetToken
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken, u.ResetPasswordExpire = "", nil
	cp := *u
	return &cp, nil
}
