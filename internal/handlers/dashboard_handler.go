package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/dto"
	"github.com/neillmakeup/studio-api/internal/models"
)

type DashboardHandler struct {
	responder
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB, r responder) *DashboardHandler {
	return &DashboardHandler{responder: r, db: db}
}

type catalogueStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

type invoiceStatusStats struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type DashboardStats struct {
	Services           catalogueStats           `json:"services"`
	Formations         catalogueStats           `json:"formations"`
	Reservations       int64                    `json:"reservations"`
	Users              int64                    `json:"users"`
	Invoices           int64                    `json:"invoices"`
	Reviews            int64                    `json:"reviews"`
	AverageRating      float64                  `json:"average_rating"`
	Gallery            int64                    `json:"gallery"`
	FAQ                int64                    `json:"faq"`
	Contacts           int64                    `json:"contacts"`
	RecentReservations []dto.ReservationListDTO `json:"recent_reservations"`
	RecentReviews      []models.Review          `json:"recent_reviews"`
	InvoicesByStatus   []invoiceStatusStats     `json:"invoices_by_status"`
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	var out DashboardStats

	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Reservation{}, &out.Reservations},
		{&models.User{}, &out.Users},
		{&models.Invoice{}, &out.Invoices},
		{&models.Review{}, &out.Reviews},
		{&models.GalleryItem{}, &out.Gallery},
		{&models.FAQ{}, &out.FAQ},
		{&models.ContactMessage{}, &out.Contacts},
	}
	for _, cnt := range counts {
		if err := db.Model(cnt.model).Count(cnt.dst).Error; err != nil {
			h.fail(c, err)
			return
		}
	}

	var err error
	if out.Services, err = catalogueCounts(db, &models.Service{}); err != nil {
		h.fail(c, err)
		return
	}
	if out.Formations, err = catalogueCounts(db, &models.Formation{}); err != nil {
		h.fail(c, err)
		return
	}

	var avg float64
	if err := db.Model(&models.Review{}).Select("COALESCE(AVG(rating), 0)").Row().Scan(&avg); err != nil {
		h.fail(c, err)
		return
	}
	out.AverageRating = math.Round(avg*10) / 10

	out.RecentReservations = make([]dto.ReservationListDTO, 0, 5)
	err = db.Table("reservations").
		Select(reservationColumns).
		Joins("LEFT JOIN users ON users.id = reservations.user_id").
		Joins("LEFT JOIN services ON services.id = reservations.service_id").
		Order("reservations.created_at DESC").
		Limit(5).
		Scan(&out.RecentReservations).Error
	if err != nil {
		h.fail(c, err)
		return
	}

	out.RecentReviews = make([]models.Review, 0, 5)
	if err := db.Order("created_at DESC").Limit(5).Find(&out.RecentReviews).Error; err != nil {
		h.fail(c, err)
		return
	}

	out.InvoicesByStatus = make([]invoiceStatusStats, 0, 3)
	var invoices []models.Invoice
	if err := db.Select("status", "amount").Find(&invoices).Error; err != nil {
		h.fail(c, err)
		return
	}
	index := map[string]int{}
	for _, inv := range invoices {
		i, ok := index[inv.Status]
		if !ok {
			i = len(out.InvoicesByStatus)
			index[inv.Status] = i
			out.InvoicesByStatus = append(out.InvoicesByStatus, invoiceStatusStats{Status: inv.Status, Amount: decimal.Zero})
		}
		out.InvoicesByStatus[i].Count++
		out.InvoicesByStatus[i].Amount = out.InvoicesByStatus[i].Amount.Add(inv.Amount)
	}

	c.JSON(http.StatusOK, out)
}

func catalogueCounts(db *gorm.DB, model any) (catalogueStats, error) {
	var s catalogueStats
	if err := db.Model(model).Count(&s.Total).Error; err != nil {
		return s, err
	}
	if err := db.Model(model).Where("is_active = ?", true).Count(&s.Active).Error; err != nil {
		return s, err
	}
	s.Inactive = s.Total - s.Active
	return s, nil
}
