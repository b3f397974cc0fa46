// Package payments creates checkout links and reads payment notifications
// through MercadoPago.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

const StatusApproved = "approved"

var ErrDisabled = errors.New("payments disabled")

type CheckoutRequest struct {
	InvoiceID uint
	Title     string
	Amount    decimal.Decimal
	Currency  string
	NotifyURL string
}

type Checkout struct {
	PreferenceID string
	URL          string
}

type Payment struct {
	ID        int
	Status    string
	InvoiceID uint
}

// Gateway is the part of a payment provider the invoices API relies on.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	GetPayment(ctx context.Context, id int) (*Payment, error)
}

type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, ErrDisabled
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	price, _ := req.Amount.Float64()

	pref := preference.Request{
		Items: []preference.ItemRequest{{
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  price,
			CurrencyID: req.Currency,
		}},
		ExternalReference: strconv.FormatUint(uint64(req.InvoiceID), 10),
		NotificationURL:   req.NotifyURL,
	}

	res, err := m.preferences.Create(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	return &Checkout{PreferenceID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id int) (*Payment, error) {
	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	out := &Payment{ID: res.ID, Status: res.Status}
	if ref, err := strconv.ParseUint(res.ExternalReference, 10, 64); err == nil {
		out.InvoiceID = uint(ref)
	}
	return out, nil
}
