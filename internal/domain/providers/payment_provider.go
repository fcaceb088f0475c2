package providers

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// PaymentProvider settles a payment between two members.
type PaymentProvider interface {
	// Charge processes the payment. The receipt fields are already populated.
	Charge(ctx context.Context, payment *entities.Payment) error
}
