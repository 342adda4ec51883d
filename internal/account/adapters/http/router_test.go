package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accounthttp "portfolio/internal/account/adapters/http"
	"portfolio/internal/account/adapters/http/account"
	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	"portfolio/internal/account/ports/api"
)

const (
	testUserID = "2f1d6c0e-5b7a-4f43-9d55-3f8c1a9e7b21"
	testToken  = "signed-session-token"
)

var errUnexpected = errors.New("connection reset")

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) result(args mock.Arguments) (*api.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResult), args.Error(1)
}

func (m *mockAccounts) user(args mock.Arguments) (*entities.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAccounts) Register(ctx context.Context, input api.RegisterInput) (*api.AuthResult, error) {
	return m.result(m.Called(ctx, input))
}

func (m *mockAccounts) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return m.result(m.Called(ctx, email, password))
}

func (m *mockAccounts) Logout(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAccounts) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *mockAccounts) GetPortfolioOwner(ctx context.Context) (*entities.User, error) {
	return m.user(m.Called(ctx))
}

func (m *mockAccounts) UpdateProfile(ctx context.Context, userID string, input api.UpdateProfileInput) (*entities.User, error) {
	return m.user(m.Called(ctx, userID, input))
}

func (m *mockAccounts) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	return m.user(m.Called(ctx, token))
}

type mockPasswords struct {
	mock.Mock
}

func (m *mockPasswords) UpdatePassword(ctx context.Context, userID string, input api.UpdatePasswordInput) error {
	return m.Called(ctx, userID, input).Error(0)
}

func (m *mockPasswords) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockPasswords) ResetPassword(ctx context.Context, input api.ResetPasswordInput) (*api.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResult), args.Error(1)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type body struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *entities.User `json:"user"`
	Status  string         `json:"status"`
}

type testServer struct {
	app       *fiber.App
	accounts  *mockAccounts
	passwords *mockPasswords
	healthErr error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{accounts: new(mockAccounts), passwords: new(mockPasswords)}
	s.app = accounthttp.NewApp(fiber.Config{})
	accounthttp.SetupRouter(s.app, accounthttp.RouterDeps{
		Accounts:  s.accounts,
		Passwords: s.passwords,
		Health:    pingerFunc(func(context.Context) error { return s.healthErr }),
		Cookies:   account.CookieSettings{Secure: true},
	})

	t.Cleanup(func() {
		s.accounts.AssertExpectations(t)
		s.passwords.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, body) {
	t.Helper()

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out body
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (s *testServer) authenticated() {
	s.accounts.On("Authenticate", mock.Anything, testToken).Return(testUser(), nil)
}

func jsonRequest(method, target string, payload any) *http.Request {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: testToken})
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func testUser() *entities.User {
	return &entities.User{
		ID:      testUserID,
		Profile: entities.Profile{FullName: "Owner", Email: "owner@example.com"},
		Avatar:  &entities.Media{PublicID: "AVATARS/a.png", URL: "https://cdn.example.com/AVATARS/a.png"},
		Resume:  &entities.Media{PublicID: "MY_RESUME/r.pdf", URL: "https://cdn.example.com/MY_RESUME/r.pdf"},
	}
}

func testResult() *api.AuthResult {
	return &api.AuthResult{
		User:    testUser(),
		Session: &services.Session{UserID: testUserID, Token: testToken, ExpiresAt: time.Now().Add(time.Hour)},
	}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("success - 201 with cookie", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Register", mock.Anything, mock.MatchedBy(func(in api.RegisterInput) bool {
			return in.Profile.Email == "owner@example.com" && in.Password == "secret" &&
				in.Avatar != nil && in.Avatar.Name == "me.png" &&
				in.Resume != nil && in.Resume.Name == "cv.pdf"
		})).Return(testResult(), nil).Once()

		resp, out := s.do(t, multipartRequest(t, fiber.MethodPost, "/api/v1/user/register",
			map[string]string{"email": "owner@example.com", "password": "secret", "fullName": "Owner"},
			map[string]string{"avatar": "me.png", "resume": "cv.pdf"}))

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.True(t, out.Success)
		assert.Equal(t, "User Registered Successfully", out.Message)
		assert.Equal(t, testToken, out.Token)
		require.NotNil(t, out.User)
		assert.Equal(t, testUser().Avatar.URL, out.User.Avatar.URL)
		assert.Equal(t, testUser().Resume.URL, out.User.Resume.URL)

		cookie := sessionCookie(resp)
		require.NotNil(t, cookie)
		assert.Equal(t, testToken, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	})

	t.Run("error - files missing", func(t *testing.T) {
		s := newTestServer(t)

		resp, out := s.do(t, multipartRequest(t, fiber.MethodPost, "/api/v1/user/register",
			map[string]string{"email": "owner@example.com", "password": "secret"},
			map[string]string{"avatar": "me.png"}))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.False(t, out.Success)
		assert.Equal(t, "Avatar and Resume are Required!", out.Message)
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Register", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("creating user: %w", entities.ErrDuplicateEmail)).Once()

		resp, out := s.do(t, multipartRequest(t, fiber.MethodPost, "/api/v1/user/register",
			map[string]string{"email": "owner@example.com", "password": "secret"},
			map[string]string{"avatar": "me.png", "resume": "cv.pdf"}))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Duplicate Email Entered", out.Message)
	})

	t.Run("error - upload failure is 500 with message", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Register", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("uploading avatar: %w: %w", entities.ErrAvatarUpload, errUnexpected)).Once()

		resp, out := s.do(t, multipartRequest(t, fiber.MethodPost, "/api/v1/user/register",
			map[string]string{"email": "owner@example.com", "password": "secret"},
			map[string]string{"avatar": "me.png", "resume": "cv.pdf"}))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Failed to upload avatar", out.Message)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success - cookie set", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Login", mock.Anything, "owner@example.com", "secret").Return(testResult(), nil).Once()

		resp, out := s.do(t, jsonRequest(fiber.MethodPost, "/api/v1/user/login",
			map[string]string{"email": " owner@example.com ", "password": "secret"}))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Logged In Successfully!", out.Message)
		require.NotNil(t, sessionCookie(resp))
	})

	t.Run("error - invalid credentials is 400", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Login", mock.Anything, "nobody@example.com", "secret").
			Return(nil, fmt.Errorf("invalid credentials: %w", entities.ErrInvalidCredentials)).Once()

		resp, out := s.do(t, jsonRequest(fiber.MethodPost, "/api/v1/user/login",
			map[string]string{"email": "nobody@example.com", "password": "secret"}))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid Email or Password", out.Message)
		assert.Nil(t, sessionCookie(resp))
	})

	t.Run("error - malformed body", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/user/login", strings.NewReader("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, out := s.do(t, req)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid Request Body", out.Message)
	})
}

func TestLogoutTwice(t *testing.T) {
	s := newTestServer(t)
	s.authenticated()
	s.accounts.On("Logout", mock.Anything, testUserID).Return(nil).Once()
	s.accounts.On("Logout", mock.Anything, "").Return(nil).Once()

	resp, out := s.do(t, withSession(httptest.NewRequest(fiber.MethodGet, "/api/v1/user/logout", nil)))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	resp, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/user/logout", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMe(t *testing.T) {
	t.Run("error - no session is 401", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("Authenticate", mock.Anything, "").
			Return(nil, fmt.Errorf("authenticating: %w", entities.ErrUnauthenticated)).Once()

		resp, out := s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/user/me", nil))

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "User Not Authenticated!", out.Message)
	})

	t.Run("success - cookie session", func(t *testing.T) {
		s := newTestServer(t)
		s.authenticated()
		s.accounts.On("GetUser", mock.Anything, testUserID).Return(testUser(), nil).Once()

		resp, out := s.do(t, withSession(httptest.NewRequest(fiber.MethodGet, "/api/v1/user/me", nil)))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NotNil(t, out.User)
		assert.Equal(t, testUserID, out.User.ID)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("success - bearer header", func(t *testing.T) {
		s := newTestServer(t)
		s.authenticated()
		s.accounts.On("GetUser", mock.Anything, testUserID).Return(testUser(), nil).Once()
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/user/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)

		resp, _ := s.do(t, req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestPortfolioOwner(t *testing.T) {
	t.Run("error - not found", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("GetPortfolioOwner", mock.Anything).
			Return(nil, fmt.Errorf("finding user: %w", entities.ErrUserNotFound)).Once()

		resp, out := s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/user/portfolio-owner", nil))

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "User Not Found", out.Message)
	})

	t.Run("error - unknown failure is hidden", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("GetPortfolioOwner", mock.Anything).Return(nil, errUnexpected).Once()

		resp, out := s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/user/portfolio-owner", nil))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal Server Error", out.Message)
	})

	t.Run("error - panic is recovered", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.On("GetPortfolioOwner", mock.Anything).Run(func(mock.Arguments) {
			panic("boom")
		}).Return(nil, nil).Once()

		resp, out := s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/user/portfolio-owner", nil))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.False(t, out.Success)
		assert.Equal(t, "Internal Server Error", out.Message)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("success - json partial update", func(t *testing.T) {
		s := newTestServer(t)
		s.authenticated()
		s.accounts.On("UpdateProfile", mock.Anything, testUserID, mock.MatchedBy(func(in api.UpdateProfileInput) bool {
			return in.Fields.FullName != nil && *in.Fields.FullName == "Renamed" &&
				in.Fields.Email == nil && in.Avatar == nil && in.Resume == nil
		})).Return(testUser(), nil).Once()

		resp, out := s.do(t, withSession(jsonRequest(fiber.MethodPut, "/api/v1/user/profile",
			map[string]string{"fullName": "Renamed"})))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Profile Updated!", out.Message)
	})

	t.Run("success - multipart with new resume", func(t *testing.T) {
		s := newTestServer(t)
		s.authenticated()
		s.accounts.On("UpdateProfile", mock.Anything, testUserID, mock.MatchedBy(func(in api.UpdateProfileInput) bool {
			return in.Fields.AboutMe != nil && *in.Fields.AboutMe == "hello" &&
				in.Fields.Phone == nil && in.Avatar == nil &&
				in.Resume != nil && in.Resume.Name == "cv2.pdf"
		})).Return(testUser(), nil).Once()

		resp, _ := s.do(t, withSession(multipartRequest(t, fiber.MethodPut, "/api/v1/user/profile",
			map[string]string{"aboutMe": "hello"},
			map[string]string{"resume": "cv2.pdf"})))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestPasswordRoutes(t *testing.T) {
	t.Run("error - wrong current password", func(t *testing.T) {
		s := newTestServer(t)
		s.authenticated()
		s.passwords.On("UpdatePassword", mock.Anything, testUserID, api.UpdatePasswordInput{
			CurrentPassword: "bad", NewPassword: "n", ConfirmNewPassword: "n",
		}).Return(fmt.Errorf("verifying password: %w", entities.ErrCurrentPassword)).Once()

		resp, out := s.do(t, withSession(jsonRequest(fiber.MethodPut, "/api/v1/user/password",
			map[string]string{"currentPassword": "bad", "newPassword": "n", "confirmNewPassword": "n"})))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Current Password Is Incorrect!", out.Message)
	})

	t.Run("success - forgot password", func(t *testing.T) {
		s := newTestServer(t)
		s.passwords.On("ForgotPassword", mock.Anything, "owner@example.com").Return("owner@example.com", nil).Once()

		resp, out := s.do(t, jsonRequest(fiber.MethodPost, "/api/v1/user/password/forgot",
			map[string]string{"email": "owner@example.com"}))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Email Sent to owner@example.com Successfully!", out.Message)
	})

	t.Run("error - forgot password for unknown email", func(t *testing.T) {
		s := newTestServer(t)
		s.passwords.On("ForgotPassword", mock.Anything, "nobody@example.com").
			Return("", fmt.Errorf("finding user: %w", entities.ErrUserNotFound)).Once()

		resp, _ := s.do(t, jsonRequest(fiber.MethodPost, "/api/v1/user/password/forgot",
			map[string]string{"email": "nobody@example.com"}))

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("success - reset password opens session", func(t *testing.T) {
		s := newTestServer(t)
		s.passwords.On("ResetPassword", mock.Anything, api.ResetPasswordInput{
			Token: "abc123", Password: "next", ConfirmPassword: "next",
		}).Return(testResult(), nil).Once()

		resp, out := s.do(t, jsonRequest(fiber.MethodPut, "/api/v1/user/password/reset/abc123",
			map[string]string{"password": "next", "confirmPassword": "next"}))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Reset Password Successfully!", out.Message)
		require.NotNil(t, sessionCookie(resp))
	})

	t.Run("error - expired reset token", func(t *testing.T) {
		s := newTestServer(t)
		s.passwords.On("ResetPassword", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("checking reset token: %w", entities.ErrInvalidResetToken)).Once()

		resp, out := s.do(t, jsonRequest(fiber.MethodPut, "/api/v1/user/password/reset/old",
			map[string]string{"password": "next", "confirmPassword": "next"}))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Reset password token is invalid or has been expired.", out.Message)
	})
}

func TestHealthAndFallback(t *testing.T) {
	s := newTestServer(t)

	resp, out := s.do(t, httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out.Status)

	s.healthErr = errUnexpected
	resp, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, out = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/nothing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route Not Found", out.Message)
}
