package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/config"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/payments"
)

type InvoiceHandler struct {
	responder
	db      *gorm.DB
	audit   *audit.Dispatcher
	gateway payments.Gateway
	cfg     config.PaymentsConfig
}

// NewInvoiceHandler accepts a nil gateway; payment links then answer 503.
func NewInvoiceHandler(
	db *gorm.DB,
	a *audit.Dispatcher,
	gateway payments.Gateway,
	cfg config.PaymentsConfig,
	r responder,
) *InvoiceHandler {
	return &InvoiceHandler{responder: r, db: db, audit: a, gateway: gateway, cfg: cfg}
}

type CreateInvoiceRequest struct {
	ReservationID *uint           `json:"reservation_id"`
	UserID        uint            `json:"user_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PdfURL        string          `json:"pdf_url"`
}

type UpdateInvoiceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Status *string          `json:"status"`
	PdfURL *string          `json:"pdf_url"`
}

func (h *InvoiceHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"amount":     "amount",
			"status":     "status",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		DefaultDesc: true,
		Searchable:  []string{"status", "payment_ref"},
	})
	q := h.db.WithContext(c.Request.Context()).Model(&models.Invoice{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("status = ?", s)
	}
	if id := queryUint(c, "userId"); id != nil {
		q = q.Where("user_id = ?", *id)
	}

	res, err := pagination.Run[models.Invoice](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.attachUsers(c, res.Data); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InvoiceHandler) attachUsers(c *gin.Context, invoices []models.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.UserID)
	}
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range invoices {
		invoices[i].User = byID[invoices[i].UserID]
	}
	return nil
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var inv models.Invoice
	if err := h.db.WithContext(c.Request.Context()).Preload("User").First(&inv, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Amount.IsNegative() {
		httperr.Business(c, httperr.ErrBusiness("invalid_amount"))
		return
	}
	status := req.Status
	if status == "" {
		status = models.InvoicePending
	}
	if !models.IsInvoiceStatus(status) {
		httperr.Business(c, httperr.ErrBusiness("invalid_status"))
		return
	}

	db := h.db.WithContext(c.Request.Context())
	if err := db.First(&models.User{}, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			err = httperr.ErrBusiness("user_not_found")
		}
		h.fail(c, err)
		return
	}
	if req.ReservationID != nil {
		if err := db.First(&models.Reservation{}, *req.ReservationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				err = httperr.ErrBusiness("reservation_not_found")
			}
			h.fail(c, err)
			return
		}
	}

	inv := models.Invoice{
		ReservationID: req.ReservationID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Status:        status,
		PdfURL:        strings.TrimSpace(req.PdfURL),
	}
	if status == models.InvoicePaid {
		now := time.Now()
		inv.PaidAt = &now
	}
	if err := db.Create(&inv).Error; err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "invoice_created", "invoice", inv.ID, map[string]any{"amount": inv.Amount})
	c.JSON(http.StatusCreated, gin.H{"id": inv.ID})
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var inv models.Invoice
	if err := db.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			err = httperr.ErrBusiness("invoice_not_found")
		}
		h.fail(c, err)
		return
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			httperr.Business(c, httperr.ErrBusiness("invalid_amount"))
			return
		}
		inv.Amount = *req.Amount
	}
	if req.Status != nil {
		if !models.IsInvoiceStatus(*req.Status) {
			httperr.Business(c, httperr.ErrBusiness("invalid_status"))
			return
		}
		h.setStatus(&inv, *req.Status)
	}
	setString(&inv.PdfURL, req.PdfURL)

	if err := db.Save(&inv).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "invoice_updated", "invoice", inv.ID, map[string]any{"status": inv.Status})
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Invoice{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "invoice_deleted", "invoice", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *InvoiceHandler) setStatus(inv *models.Invoice, status string) {
	if status == models.InvoicePaid && inv.PaidAt == nil {
		now := time.Now()
		inv.PaidAt = &now
	}
	if status != models.InvoicePaid {
		inv.PaidAt = nil
	}
	inv.Status = status
}

// ======================================================
// PAYMENTS
// ======================================================

// PaymentLink creates a checkout for the invoice and stores its URL.
func (h *InvoiceHandler) PaymentLink(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if h.gateway == nil {
		httperr.Business(c, httperr.ErrBusiness("payments_disabled"))
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var inv models.Invoice
	if err := db.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			err = httperr.ErrBusiness("invoice_not_found")
		}
		h.fail(c, err)
		return
	}
	if inv.Status == models.InvoicePaid {
		httperr.Business(c, httperr.ErrBusiness("invoice_already_paid"))
		return
	}

	checkout, err := h.gateway.CreateCheckout(c.Request.Context(), payments.CheckoutRequest{
		InvoiceID: inv.ID,
		Title:     fmt.Sprintf("Facture #%d", inv.ID),
		Amount:    inv.Amount,
		Currency:  h.cfg.Currency,
		NotifyURL: h.cfg.NotificationURL,
	})
	if err != nil {
		h.logger().Error(c.Request.Context(), "create checkout", err)
		httperr.Business(c, httperr.ErrBusiness("payment_provider_error"))
		return
	}

	inv.PaymentURL = checkout.URL
	inv.PaymentRef = checkout.PreferenceID
	if err := db.Save(&inv).Error; err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "invoice_payment_link", "invoice", inv.ID, map[string]any{"preference": checkout.PreferenceID})
	c.JSON(http.StatusOK, gin.H{"id": inv.ID, "payment_url": inv.PaymentURL})
}

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook receives provider notifications. The payment is fetched back from
// the provider and an approved one marks its invoice paid. Unknown or
// irrelevant notifications are acknowledged with 200.
func (h *InvoiceHandler) Webhook(c *gin.Context) {
	if h.gateway == nil {
		httperr.Business(c, httperr.ErrBusiness("payments_disabled"))
		return
	}

	var n paymentNotification
	_ = c.ShouldBindJSON(&n)
	if n.Type == "" {
		n.Type = c.Query("type")
	}
	if n.Data.ID == "" {
		n.Data.ID = c.Query("data.id")
	}
	if n.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"ignored": true})
		return
	}
	paymentID, err := strconv.Atoi(n.Data.ID)
	if err != nil {
		httperr.Business(c, httperr.ErrBusiness("invalid_request"))
		return
	}

	p, err := h.gateway.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.logger().Error(c.Request.Context(), "fetch payment", err)
		httperr.Business(c, httperr.ErrBusiness("payment_provider_error"))
		return
	}
	if p.Status != payments.StatusApproved || p.InvoiceID == 0 {
		c.JSON(http.StatusOK, gin.H{"ignored": true, "status": p.Status})
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var inv models.Invoice
	if err := db.First(&inv, p.InvoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			err = httperr.ErrBusiness("invoice_not_found")
		}
		h.fail(c, err)
		return
	}
	h.setStatus(&inv, models.InvoicePaid)
	inv.PaymentRef = strconv.Itoa(p.ID)
	if err := db.Save(&inv).Error; err != nil {
		h.fail(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{Action: "invoice_paid", Entity: "invoice", EntityID: &inv.ID, Metadata: map[string]any{"payment": p.ID}})
	c.JSON(http.StatusOK, gin.H{"id": inv.ID, "status": inv.Status})
}
