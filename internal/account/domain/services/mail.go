package services

// Message - письмо для Notifier.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Имена шаблонов писем.
const TemplatePasswordReset = "password_reset"

// PasswordResetData - данные для письма со ссылкой сброса пароля.
type PasswordResetData struct {
	FullName string
	Email    string
	ResetURL string
}
