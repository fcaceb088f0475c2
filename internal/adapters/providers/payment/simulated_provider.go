package payment

import (
	"context"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	"github.com/zatekoja/campusmove/pkg/latency"
)

// SimulatedProvider stands in for a payment processor. It waits for the
// configured processing delay and always settles.
type SimulatedProvider struct {
	delay time.Duration
}

// NewSimulatedProvider creates a provider that takes delay per charge.
func NewSimulatedProvider(delay time.Duration) *SimulatedProvider {
	return &SimulatedProvider{delay: delay}
}

// Charge waits for the processing delay. It fails only when ctx ends first.
func (p *SimulatedProvider) Charge(ctx context.Context, payment *entities.Payment) error {
	if err := latency.Wait(ctx, p.delay); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("payment_id", payment.ID).
		Str("from", payment.FromUserID).
		Str("to", payment.ToUserID).
		Float64("amount", payment.Amount).
		Str("method", string(payment.MethodType)).
		Msg("simulated payment settled")
	return nil
}
