package mailer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
)

// ErrTemplateNotFound - шаблон с таким именем не зарегистрирован.
var ErrTemplateNotFound = errors.New("template not found")

const (
	passwordResetSubject = "Personal Portfolio Dashboard Password Reset"
	passwordResetBody    = `Your Reset Password Token is:

{{.ResetURL}}

Please ignore the message if you haven't requested for resetting the password.
`
)

// EmailTemplate - пара шаблонов темы и тела письма.
type EmailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// NewEmailTemplate разбирает шаблоны темы и тела.
func NewEmailTemplate(name, subject, body string) (*EmailTemplate, error) {
	subj, err := template.New(name + ".subject").Option("missingkey=error").Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("parsing subject of %s: %w", name, err)
	}
	b, err := template.New(name + ".body").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing body of %s: %w", name, err)
	}
	return &EmailTemplate{subject: subj, body: b}, nil
}

// TemplateRegistry хранит шаблоны писем по именам.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]*EmailTemplate
}

var _ svc.MessageRenderer = (*TemplateRegistry)(nil)

// NewTemplateRegistry создает реестр со встроенными шаблонами.
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{templates: make(map[string]*EmailTemplate)}

	reset, err := NewEmailTemplate(services.TemplatePasswordReset, passwordResetSubject, passwordResetBody)
	if err != nil {
		panic(err)
	}
	r.Register(services.TemplatePasswordReset, reset)

	return r
}

// Register добавляет или заменяет шаблон.
func (r *TemplateRegistry) Register(name string, tmpl *EmailTemplate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = tmpl
}

// Render подставляет data в тему и тело шаблона name.
func (r *TemplateRegistry) Render(name string, data any) (*services.Message, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrTemplateNotFound)
	}

	var subject strings.Builder
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("rendering subject of %s: %w", name, err)
	}

	var body strings.Builder
	if err := tmpl.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("rendering body of %s: %w", name, err)
	}

	return &services.Message{Subject: subject.String(), Body: body.String()}, nil
}
