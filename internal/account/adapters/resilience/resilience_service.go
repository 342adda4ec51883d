package resilience

import (
	"context"

	"go.uber.org/zap"

	"portfolio/pkg/logger"
)

// Config объединяет настройки retry и circuit breaker.
type Config struct {
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{Retry: DefaultRetryConfig(), CircuitBreaker: DefaultCircuitBreakerConfig()}
}

// ServiceResilience защищает вызовы одного внешнего сервиса.
type ServiceResilience struct {
	serviceName    string
	circuitBreaker *CircuitBreaker
	retry          *Retry
	isFailure      func(error) bool
}

// NewServiceResilience создает обертку для сервиса serviceName.
func NewServiceResilience(serviceName string, cfg Config) *ServiceResilience {
	return &ServiceResilience{
		serviceName:    serviceName,
		circuitBreaker: NewCircuitBreaker(serviceName, cfg.CircuitBreaker),
		retry:          NewRetry(serviceName, cfg.Retry),
		isFailure:      cfg.Retry.ShouldRetry,
	}
}

// Execute выполняет operation через circuit breaker и retry.
// Неповторяемые ошибки не считаются отказом сервиса.
func (r *ServiceResilience) Execute(ctx context.Context, operationName string, operation func() error) error {
	log := logger.Log(ctx).With(
		zap.String("service", r.serviceName),
		zap.String("operation", operationName),
	)
	log.Debug(ctx, "executing operation with resilience")

	return r.circuitBreaker.Execute(ctx, func() error {
		return r.retry.Execute(ctx, operation)
	}, r.isFailure)
}

// State возвращает состояние circuit breaker.
func (r *ServiceResilience) State() CircuitState {
	return r.circuitBreaker.State()
}
