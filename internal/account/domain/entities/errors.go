package entities

import "errors"

// Виды ошибок. HTTP-слой сопоставляет их со статусами ответа.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

// AccountError - ошибка с сообщением для клиента и видом из списка выше.
type AccountError struct {
	Kind    error
	Message string
}

// NewError создает ошибку вида kind с публичным сообщением.
func NewError(kind error, message string) *AccountError {
	return &AccountError{Kind: kind, Message: message}
}

func (e *AccountError) Error() string {
	return e.Message
}

// Unwrap позволяет проверять вид через errors.Is(err, ErrValidation).
func (e *AccountError) Unwrap() error {
	return e.Kind
}

// Ошибки домена пользователя.
var (
	ErrFilesRequired       = NewError(ErrValidation, "Avatar and Resume are Required!")
	ErrCredentialsRequired = NewError(ErrValidation, "Email and Password are Required")
	ErrInvalidEmail        = NewError(ErrValidation, "Please Provide A Valid Email!")
	ErrDuplicateEmail      = NewError(ErrValidation, "Duplicate Email Entered")
	ErrEmailRequired       = NewError(ErrValidation, "Please Provide Your Email!")
	ErrPasswordFields      = NewError(ErrValidation, "Please Fill All Fields.")
	ErrNewPasswordMismatch = NewError(ErrValidation, "New Passwords Doesn't Match!")
	ErrPasswordMismatch    = NewError(ErrValidation, "Passwords Doesn't Match!")
	ErrPasswordRequired    = NewError(ErrValidation, "Please Provide A New Password!")
	ErrPasswordInvalid     = NewError(ErrValidation, "Please Provide A Valid Password!")

	ErrInvalidCredentials = NewError(ErrAuth, "Invalid Email or Password")
	ErrIncorrectPassword  = NewError(ErrAuth, "Incorrect Password")
	ErrCurrentPassword    = NewError(ErrAuth, "Current Password Is Incorrect!")
	ErrInvalidResetToken  = NewError(ErrAuth, "Reset password token is invalid or has been expired.")
	ErrUnauthenticated    = NewError(ErrAuth, "User Not Authenticated!")

	ErrUserNotFound = NewError(ErrNotFound, "User Not Found")

	ErrAvatarUpload  = NewError(ErrUpstream, "Failed to upload avatar")
	ErrResumeUpload  = NewError(ErrUpstream, "Failed to upload resume")
	ErrEmailDelivery = NewError(ErrUpstream, "Failed to send password reset email")
)
