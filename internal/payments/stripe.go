package payments

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// CheckoutSession is the slice of a provider session the service layer needs.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	Metadata      map[string]string
}

func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid)
}

type CreateSessionParams struct {
	ProductName string
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Checkout is the payment-provider seam; the subscription service is tested
// against a fake implementation.
type Checkout interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*CheckoutSession, error)
}

type StripeCheckout struct {
	api        *client.API
	successURL string
	cancelURL  string
}

func NewStripeCheckout(secretKey, successURL, cancelURL string) *StripeCheckout {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeCheckout{
		api:        api,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (s *StripeCheckout) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	p := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context:  ctx,
			Metadata: params.Metadata,
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := s.api.CheckoutSessions.New(p)
	if err != nil {
		return nil, err
	}
	return fromStripe(sess), nil
}

func (s *StripeCheckout) GetSession(ctx context.Context, id string) (*CheckoutSession, error) {
	sess, err := s.api.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, err
	}
	return fromStripe(sess), nil
}

func fromStripe(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}
}
