// Package entities содержит сущности домена аккаунта.
package entities

import (
	"regexp"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Media - ссылка на объект в хранилище медиа.
type Media struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Valid сообщает, что хранилище вернуло пригодные идентификатор и адрес.
func (m *Media) Valid() bool {
	return m != nil && m.PublicID != "" && m.URL != ""
}

// Profile - редактируемые поля профиля.
type Profile struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AboutMe      string `json:"aboutMe"`
	PortfolioURL string `json:"portfolioURL"`
	GithubURL    string `json:"githubURL"`
	InstagramURL string `json:"instagramURL"`
	XURL         string `json:"xURL"`
	FacebookURL  string `json:"facebookURL"`
	LinkedInURL  string `json:"linkedInURL"`
}

// User - владелец портфолио.
type User struct {
	ID string `json:"id"`
	Profile

	Avatar *Media `json:"avatar,omitempty"`
	Resume *Media `json:"resume,omitempty"`

	PasswordHash        string     `json:"-"`
	ResetPasswordToken  string     `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResetPending сообщает, ожидает ли пользователь сброса пароля на момент now.
func (u *User) ResetPending(now time.Time) bool {
	return u.ResetPasswordToken != "" && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now)
}

// ProfileUpdate - частичное обновление профиля; nil означает "не менять".
type ProfileUpdate struct {
	FullName     *string
	Email        *string
	Phone        *string
	AboutMe      *string
	PortfolioURL *string
	GithubURL    *string
	InstagramURL *string
	XURL         *string
	FacebookURL  *string
	LinkedInURL  *string
}

// Apply переносит заданные поля в профиль.
func (p ProfileUpdate) Apply(dst *Profile) {
	set := func(field *string, value *string) {
		if value != nil {
			*field = *value
		}
	}
	set(&dst.FullName, p.FullName)
	set(&dst.Email, p.Email)
	set(&dst.Phone, p.Phone)
	set(&dst.AboutMe, p.AboutMe)
	set(&dst.PortfolioURL, p.PortfolioURL)
	set(&dst.GithubURL, p.GithubURL)
	set(&dst.InstagramURL, p.InstagramURL)
	set(&dst.XURL, p.XURL)
	set(&dst.FacebookURL, p.FacebookURL)
	set(&dst.LinkedInURL, p.LinkedInURL)
}

// ValidateEmail проверяет формат адреса.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
