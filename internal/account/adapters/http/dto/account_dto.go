// Package dto содержит объекты передачи данных HTTP API аккаунта.
package dto

import "portfolio/internal/account/domain/entities"

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest - частичное обновление профиля в JSON. Отсутствующие поля не меняются.
type ProfileRequest struct {
	FullName     *string `json:"fullName"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AboutMe      *string `json:"aboutMe"`
	PortfolioURL *string `json:"portfolioURL"`
	GithubURL    *string `json:"githubURL"`
	InstagramURL *string `json:"instagramURL"`
	XURL         *string `json:"xURL"`
	FacebookURL  *string `json:"facebookURL"`
	LinkedInURL  *string `json:"linkedInURL"`
}

// ToUpdate переводит запрос в доменное обновление.
func (r ProfileRequest) ToUpdate() entities.ProfileUpdate {
	return entities.ProfileUpdate{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		AboutMe:      r.AboutMe,
		PortfolioURL: r.PortfolioURL,
		GithubURL:    r.GithubURL,
		InstagramURL: r.InstagramURL,
		XURL:         r.XURL,
		FacebookURL:  r.FacebookURL,
		LinkedInURL:  r.LinkedInURL,
	}
}

// UpdatePasswordRequest содержит данные смены пароля.
type UpdatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ForgotPasswordRequest содержит адрес для письма сброса.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest содержит новый пароль. Токен передается в пути.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Response - тело успешного ответа.
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	User    *entities.User `json:"user,omitempty"`
	Token   string         `json:"token,omitempty"`
}

// HealthResponse - тело ответа проверки готовности.
type HealthResponse struct {
	Status string `json:"status"`
}
