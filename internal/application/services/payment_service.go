package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

// DefaultPaymentMethods returns the saved methods offered on the payment page.
func DefaultPaymentMethods() []entities.PaymentMethod {
	return []entities.PaymentMethod{
		{ID: "card1", Type: entities.PaymentMethodCard, Last4: "4242", Brand: "Visa", IsDefault: true},
		{ID: "paypal1", Type: entities.PaymentMethodPayPal},
		{ID: "venmo1", Type: entities.PaymentMethodVenmo},
		{ID: "cashapp1", Type: entities.PaymentMethodCashApp},
	}
}

// PaymentForm is the input of the Send Payment page.
type PaymentForm struct {
	RecipientID string  `json:"recipient_id"`
	Amount      float64 `json:"amount"`
	MethodID    string  `json:"method_id"`
	Description string  `json:"description"`
}

// PaymentService sends simulated payments from the signed-in user.
type PaymentService struct {
	marketplace *MarketplaceService
	session     *SessionService
	provider    providers.PaymentProvider
	methods     []entities.PaymentMethod
}

// NewPaymentService creates a new payment service
func NewPaymentService(marketplace *MarketplaceService, session *SessionService, provider providers.PaymentProvider) *PaymentService {
	return &PaymentService{
		marketplace: marketplace,
		session:     session,
		provider:    provider,
		methods:     DefaultPaymentMethods(),
	}
}

// Methods returns the saved payment methods
func (s *PaymentService) Methods() []entities.PaymentMethod {
	methods := make([]entities.PaymentMethod, len(s.methods))
	copy(methods, s.methods)
	return methods
}

func (s *PaymentService) method(id string) (entities.PaymentMethod, bool) {
	for _, m := range s.methods {
		if m.ID == id {
			return m, true
		}
	}
	return entities.PaymentMethod{}, false
}

// Send validates form, resolves the recipient and hands the payment to the
// provider. The receipt is returned and not stored.
func (s *PaymentService) Send(ctx context.Context, form PaymentForm) (*entities.Payment, error) {
	payer := s.session.CurrentUser()
	if payer == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to send a payment")
	}

	recipientID := strings.TrimSpace(form.RecipientID)
	if recipientID == "" {
		return nil, apperrors.NewValidationError("recipient is required")
	}
	if recipientID == payer.ID {
		return nil, apperrors.NewValidationError("you cannot pay yourself")
	}
	if !(form.Amount > 0) || math.IsInf(form.Amount, 0) {
		return nil, apperrors.NewValidationError("amount must be a positive number")
	}
	method, ok := s.method(form.MethodID)
	if !ok {
		return nil, apperrors.NewValidationError("select a payment method")
	}

	recipient, err := s.marketplace.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, apperrors.NewNotFoundError("recipient not found")
	}

	payment := &entities.Payment{
		ID:          uuid.New().String(),
		FromUserID:  payer.ID,
		ToUserID:    recipient.ID,
		Amount:      form.Amount,
		MethodID:    method.ID,
		MethodType:  method.Type,
		Description: strings.TrimSpace(form.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.provider.Charge(ctx, payment); err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Str("payment_id", payment.ID).Msg("payment failed")
		return nil, apperrors.NewInternalError("payment failed", err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("payment_id", payment.ID).
		Str("to_user_id", payment.ToUserID).
		Str("method", method.Label()).
		Msg("payment sent")
	return payment, nil
}
