// Package mailer доставляет письма по SMTP через go-mail.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
	"portfolio/pkg/logger"
)

const (
	methodSend = "Send"

	msgSending    = "sending email"
	msgSent       = "email sent"
	msgErrSend    = "failed to send email"
	msgLogOnlyMsg = "smtp is not configured, email written to log"

	errCtxNewClient = "creating smtp client"
	errCtxBuildMsg  = "building email"
	errCtxSend      = "sending email"
)

// Политики STARTTLS для Config.TLSPolicy.
const (
	TLSPolicyMandatory     = "mandatory"
	TLSPolicyOpportunistic = "opportunistic"
	TLSPolicyNone          = "none"
)

// ErrUnknownTLSPolicy возвращается для неизвестного значения Config.TLSPolicy.
var ErrUnknownTLSPolicy = errors.New("unknown tls policy")

// Config - параметры SMTP.
type Config struct {
	Host      string
	Port      int
	AuthType  string
	Username  string
	Password  string
	SSL       bool
	TLSPolicy string
	Timeout   time.Duration
}

// Sender - используемое подмножество *mail.Client.
//
// *mail.Client хранит текущее SMTP-соединение в себе, поэтому один Sender
// обслуживает одну отправку. Соединение закрывается внутри DialAndSendWithContext.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SenderFactory создает Sender для очередной отправки.
type SenderFactory func() (Sender, error)

// NewClientFactory возвращает фабрику, создающую новый *mail.Client на каждую отправку.
func NewClientFactory(cfg Config) SenderFactory {
	return func() (Sender, error) {
		client, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// NewClient создает SMTP-клиент.
func NewClient(cfg Config) (*mail.Client, error) {
	var options []mail.Option

	if cfg.Port != 0 {
		options = append(options, mail.WithPort(cfg.Port))
	}
	if cfg.AuthType != "" {
		options = append(options, mail.WithSMTPAuth(mail.SMTPAuthType(strings.ToUpper(cfg.AuthType))))
	}
	if cfg.SSL {
		options = append(options, mail.WithSSLPort(true))
	}
	switch strings.ToLower(cfg.TLSPolicy) {
	case TLSPolicyNone:
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	case TLSPolicyOpportunistic:
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case "", TLSPolicyMandatory:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		return nil, fmt.Errorf("%s: %w: %q", errCtxNewClient, ErrUnknownTLSPolicy, cfg.TLSPolicy)
	}
	if cfg.Timeout > 0 {
		options = append(options, mail.WithTimeout(cfg.Timeout))
	}
	options = append(options, mail.WithUsername(cfg.Username), mail.WithPassword(cfg.Password))

	client, err := mail.NewClient(cfg.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxNewClient, err)
	}
	return client, nil
}

// SMTPNotifier реализует Notifier поверх SMTP. Безопасен для конкурентного
// использования: каждое письмо уходит через собственный Sender.
type SMTPNotifier struct {
	newSender SenderFactory
	from      string
}

// NewSMTPNotifier создает Notifier, отправляющий письма от имени from.
func NewSMTPNotifier(newSender SenderFactory, from string) *SMTPNotifier {
	return &SMTPNotifier{newSender: newSender, from: from}
}

var _ svc.Notifier = (*SMTPNotifier)(nil)

// Send отправляет письмо в виде простого текста.
func (n *SMTPNotifier) Send(ctx context.Context, message services.Message) error {
	log := logger.Log(ctx).With(zap.String("method", methodSend), zap.String("to", message.To))
	log.Debug(ctx, msgSending)

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("%s: %w", errCtxBuildMsg, err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("%s: %w", errCtxBuildMsg, err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	sender, err := n.newSender()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxNewClient, err)
	}
	if err := sender.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error(ctx, msgErrSend, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxSend, err)
	}

	log.Info(ctx, msgSent)
	return nil
}

// LogNotifier пишет письма в лог. Используется, когда SMTP не настроен.
type LogNotifier struct{}

// Send записывает письмо в лог.
func (LogNotifier) Send(ctx context.Context, message services.Message) error {
	logger.Log(ctx).Warn(ctx, msgLogOnlyMsg,
		zap.String("to", message.To),
		zap.String("subject", message.Subject),
		zap.String("body", message.Body))
	return nil
}
