package account

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	"portfolio/pkg/logger"
)

// Имена полей формы.
const (
	fieldAvatar       = "avatar"
	fieldResume       = "resume"
	fieldPassword     = "password"
	fieldFullName     = "fullName"
	fieldEmail        = "email"
	fieldPhone        = "phone"
	fieldAboutMe      = "aboutMe"
	fieldPortfolioURL = "portfolioURL"
	fieldGithubURL    = "githubURL"
	fieldInstagramURL = "instagramURL"
	fieldXURL         = "xURL"
	fieldFacebookURL  = "facebookURL"
	fieldLinkedInURL  = "linkedInURL"
)

// formFiles открывает файлы формы и закрывает их после обработки запроса.
type formFiles struct {
	form   *multipart.Form
	opened []io.Closer
}

func newFormFiles(form *multipart.Form) *formFiles {
	return &formFiles{form: form}
}

// Open возвращает первый файл поля field или nil, если поле пусто.
func (f *formFiles) Open(field string) (*services.MediaFile, error) {
	headers := f.form.File[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening form file %s: %w", field, ErrInvalidRequest)
	}
	f.opened = append(f.opened, file)

	return &services.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, nil
}

func (f *formFiles) Close(ctx context.Context) {
	for _, c := range f.opened {
		if err := c.Close(); err != nil {
			logger.Log(ctx).Warn(ctx, "failed to close form file", zap.Error(err))
		}
	}
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func formPointer(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}

func profileFromForm(form *multipart.Form) entities.Profile {
	return entities.Profile{
		FullName:     formValue(form, fieldFullName),
		Email:        formValue(form, fieldEmail),
		Phone:        formValue(form, fieldPhone),
		AboutMe:      formValue(form, fieldAboutMe),
		PortfolioURL: formValue(form, fieldPortfolioURL),
		GithubURL:    formValue(form, fieldGithubURL),
		InstagramURL: formValue(form, fieldInstagramURL),
		XURL:         formValue(form, fieldXURL),
		FacebookURL:  formValue(form, fieldFacebookURL),
		LinkedInURL:  formValue(form, fieldLinkedInURL),
	}
}

func profileUpdateFromForm(form *multipart.Form) entities.ProfileUpdate {
	return entities.ProfileUpdate{
		FullName:     formPointer(form, fieldFullName),
		Email:        formPointer(form, fieldEmail),
		Phone:        formPointer(form, fieldPhone),
		AboutMe:      formPointer(form, fieldAboutMe),
		PortfolioURL: formPointer(form, fieldPortfolioURL),
		GithubURL:    formPointer(form, fieldGithubURL),
		InstagramURL: formPointer(form, fieldInstagramURL),
		XURL:         formPointer(form, fieldXURL),
		FacebookURL:  formPointer(form, fieldFacebookURL),
		LinkedInURL:  formPointer(form, fieldLinkedInURL),
	}
}
