package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/payments"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func createInvoice(t *testing.T, e *env, amount int64) *models.Invoice {
	t.Helper()
	user := testutil.CreateUser(t, e.db, fmt.Sprintf("client%d@example.fr", amount), models.RoleClient)
	inv := &models.Invoice{UserID: user.ID, Amount: decimal.NewFromInt(amount), Status: models.InvoicePending}
	require.NoError(t, e.db.Create(inv).Error)
	return inv
}

func TestPaymentLinkStoresCheckoutURL(t *testing.T) {
	e := newEnv(t)
	inv := createInvoice(t, e, 150)

	w := e.asAdmin(http.MethodPost, fmt.Sprintf("/api/admin/invoices/payment-link?id=%d", inv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://pay.example/checkout/pref-1", decode(t, w)["payment_url"])

	require.Len(t, e.gateway.checkouts, 1)
	assert.Equal(t, inv.ID, e.gateway.checkouts[0].InvoiceID)
	assert.Equal(t, "EUR", e.gateway.checkouts[0].Currency)
	assert.True(t, e.gateway.checkouts[0].Amount.Equal(decimal.NewFromInt(150)))

	var stored models.Invoice
	require.NoError(t, e.db.First(&stored, inv.ID).Error)
	assert.Equal(t, "pref-1", stored.PaymentRef)
}

func TestWebhookMarksInvoicePaid(t *testing.T) {
	e := newEnv(t)
	inv := createInvoice(t, e, 80)
	e.gateway.payment = payments.Payment{Status: payments.StatusApproved, InvoiceID: inv.ID}

	w := e.do(http.MethodPost, "/api/webhooks/mercadopago", map[string]any{"type": "merchant_order"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ignored"])

	w = e.do(http.MethodPost, "/api/webhooks/mercadopago", map[string]any{
		"type": "payment",
		"data": map[string]any{"id": "9876"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Invoice
	require.NoError(t, e.db.First(&stored, inv.ID).Error)
	assert.Equal(t, models.InvoicePaid, stored.Status)
	assert.Equal(t, "9876", stored.PaymentRef)
	assert.NotNil(t, stored.PaidAt)

	w = e.asAdmin(http.MethodPost, fmt.Sprintf("/api/admin/invoices/payment-link?id=%d", inv.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invoice_already_paid", decode(t, w)["error_code"])
}

func TestWebhookIgnoresPendingPayment(t *testing.T) {
	e := newEnv(t)
	inv := createInvoice(t, e, 80)
	e.gateway.payment = payments.Payment{Status: "pending", InvoiceID: inv.ID}

	w := e.do(http.MethodPost, "/api/webhooks/mercadopago?type=payment&data.id=12", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Invoice
	require.NoError(t, e.db.First(&stored, inv.ID).Error)
	assert.Equal(t, models.InvoicePending, stored.Status)
}

func TestDashboardStats(t *testing.T) {
	e := newEnv(t)
	createInvoice(t, e, 80)
	createInvoice(t, e, 20)
	testutil.CreateService(t, e.db, "Maquillage Mariée", "maquillage-mariee")
	require.NoError(t, e.db.Create(&models.Review{Author: "Léa", Comment: "a", Rating: 5, Global: true}).Error)
	require.NoError(t, e.db.Create(&models.Review{Author: "Zoé", Comment: "b", Rating: 4, Global: true}).Error)

	w := e.asAdmin(http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"pending"`)
	assert.Contains(t, w.Body.String(), "4.5")
}
