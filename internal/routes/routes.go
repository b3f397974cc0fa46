package routes

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/config"
	"github.com/neillmakeup/studio-api/internal/handlers"
	infraRepo "github.com/neillmakeup/studio-api/internal/infra/repository"
	"github.com/neillmakeup/studio-api/internal/logger"
	"github.com/neillmakeup/studio-api/internal/metrics"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/notify"
	"github.com/neillmakeup/studio-api/internal/payments"
	"github.com/neillmakeup/studio-api/internal/session"
	"github.com/neillmakeup/studio-api/internal/storage"
	"github.com/neillmakeup/studio-api/internal/timezone"
	"github.com/neillmakeup/studio-api/internal/upload"
	"github.com/neillmakeup/studio-api/internal/usecase/schedule"
	"github.com/neillmakeup/studio-api/internal/validators"
	"github.com/neillmakeup/studio-api/internal/web"
)

// Deps are the singletons built by main. Log, Metrics, Audit, Notifier and
// Payments may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *logger.Logger
	Metrics  *metrics.HTTP
	Sessions *session.Manager
	Audit    *audit.Dispatcher
	Notifier notify.Notifier
	Store    storage.Store
	Payments payments.Gateway
}

func New(d Deps) (*gin.Engine, error) {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	if err := validators.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("registering validators: %w", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	RegisterRoutes(r, d)
	return r, nil
}

// byID serves a single record when ?id= is present and the list otherwise.
func byID(one, list gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("id") != "" {
			one(c)
			return
		}
		list(c)
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB
	loc := timezone.Location(cfg.App.Timezone)

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	auth := middleware.NewAuth(db, d.Sessions, cfg.Auth.CookieName)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(d.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.App.CORSOrigin))
	r.Use(auth.Load())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	uploads := upload.NewService(d.Store, upload.Options{
		MaxBytes:     cfg.Uploads.MaxBytes,
		WebPVariants: cfg.Uploads.WebPVariants,
		VariantWidth: cfg.Uploads.VariantWidth,
	}, d.Log)

	resp := handlers.NewResponder(d.Log, d.Metrics)

	// ======================================================
	// USE CASES - SCHEDULE
	// ======================================================
	blockedSlotsUC := schedule.NewBlockedSlots(scheduleRepo, d.Audit, loc)
	hours := schedule.OpeningHours{
		Start: cfg.Booking.DayStart,
		End:   cfg.Booking.DayEnd,
		Step:  cfg.Booking.SlotStep,
	}
	reservationsUC := schedule.NewReservations(scheduleRepo, d.Audit, d.Notifier, hours, loc)
	calendarUC := schedule.NewCalendar(scheduleRepo, loc)
	availabilityUC := schedule.NewAvailability(scheduleRepo, hours, loc)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, d.Sessions, cfg.Auth, resp)
	publicHandler := handlers.NewPublicHandler(db, availabilityUC, resp)
	appWebHandler := handlers.NewAppWebHandler()

	serviceHandler := handlers.NewServiceHandler(db, d.Audit, resp)
	formationHandler := handlers.NewFormationHandler(db, d.Audit, resp)
	reservationHandler := handlers.NewReservationHandler(db, reservationsUC, resp)
	blockedSlotHandler := handlers.NewBlockedSlotHandler(db, blockedSlotsUC, loc, resp)
	calendarHandler := handlers.NewCalendarHandler(calendarUC, loc, resp)

	reviewHandler := handlers.NewReviewHandler(db, d.Audit, resp)
	faqHandler := handlers.NewFAQHandler(db, d.Audit, resp)
	galleryHandler := handlers.NewGalleryHandler(db, d.Audit, uploads, resp)
	uploadHandler := handlers.NewUploadHandler(uploads, resp)

	userHandler := handlers.NewUserHandler(db, d.Audit, resp)
	invoiceHandler := handlers.NewInvoiceHandler(db, d.Audit, d.Payments, cfg.Payments, resp)
	siteHandler := handlers.NewSiteHandler(db, d.Audit, resp)
	teamHandler := handlers.NewTeamHandler(db, d.Audit, resp)
	contactHandler := handlers.NewContactHandler(db, d.Notifier, resp)
	dashboardHandler := handlers.NewDashboardHandler(db, resp)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc, resp)

	// ======================================================
	// INFRA ROUTES
	// ======================================================
	r.GET("/health", publicHandler.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	if strings.EqualFold(cfg.Uploads.Backend, "local") {
		r.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)
	}

	// ======================================================
	// WEB (HTML)
	// ======================================================
	r.GET(middleware.LoginPath, appWebHandler.LoginPage)
	r.StaticFileFS(web.ScriptPath, "static/admin.js", web.Static())

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdminPage())
	{
		admin.GET("", appWebHandler.Dashboard)
		admin.GET("/:section", appWebHandler.Section)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/services", publicHandler.Services)
			public.GET("/services/:slug", publicHandler.Service)
			public.GET("/formations", publicHandler.Formations)
			public.GET("/formations/:slug", publicHandler.Formation)
			public.GET("/availability", publicHandler.Availability)

			public.GET("/reviews", reviewHandler.Public)
			public.GET("/gallery", galleryHandler.Public)
			public.GET("/faq", faqHandler.Public)

			public.GET("/site", siteHandler.Get)
			public.GET("/team", teamHandler.Public)
			public.POST("/contact", contactHandler.Create)
		}

		api.POST("/webhooks/mercadopago", invoiceHandler.Webhook)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// ------------------------------
		// CLIENT
		// ------------------------------
		client := api.Group("")
		client.Use(middleware.RequireUser())
		{
			client.GET("/me", authHandler.Me)
			client.GET("/me/reservations", reservationHandler.Mine)
			client.POST("/reservations", reservationHandler.Book)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		secured := api.Group("/admin")
		secured.Use(middleware.RequireAdminAPI())
		{
			secured.GET("/dashboard", dashboardHandler.Stats)

			secured.GET("/services", byID(serviceHandler.Get, serviceHandler.List))
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services", serviceHandler.Update)
			secured.DELETE("/services", serviceHandler.Delete)

			secured.GET("/formations", byID(formationHandler.Get, formationHandler.List))
			secured.POST("/formations", formationHandler.Create)
			secured.PATCH("/formations", formationHandler.Update)
			secured.DELETE("/formations", formationHandler.Delete)

			// ------------------------------
			// SCHEDULE
			// ------------------------------
			secured.GET("/reservations", byID(reservationHandler.Get, reservationHandler.List))
			secured.POST("/reservations", reservationHandler.Create)
			secured.PATCH("/reservations", reservationHandler.Update)
			secured.PATCH("/reservations/reschedule", reservationHandler.Reschedule)
			secured.DELETE("/reservations", reservationHandler.Delete)

			secured.GET("/blocked-slots", blockedSlotHandler.List)
			secured.POST("/blocked-slots", blockedSlotHandler.Create)
			secured.PATCH("/blocked-slots", blockedSlotHandler.Update)
			secured.DELETE("/blocked-slots", blockedSlotHandler.Delete)

			secured.GET("/calendar", calendarHandler.Events)

			// ------------------------------
			// CONTENT
			// ------------------------------
			secured.GET("/reviews", reviewHandler.List)
			secured.POST("/reviews", reviewHandler.Create)
			secured.PATCH("/reviews", reviewHandler.Update)
			secured.DELETE("/reviews", reviewHandler.Delete)

			secured.GET("/faq", faqHandler.List)
			secured.POST("/faq", faqHandler.Create)
			secured.PATCH("/faq", faqHandler.Update)
			secured.DELETE("/faq", faqHandler.Delete)

			secured.GET("/gallery", galleryHandler.List)
			secured.POST("/gallery", galleryHandler.Create)
			secured.POST("/gallery/upload", galleryHandler.Upload)
			secured.PATCH("/gallery", galleryHandler.Update)
			secured.DELETE("/gallery", galleryHandler.Delete)

			secured.POST("/uploads", uploadHandler.Create)

			// ------------------------------
			// USERS & BILLING
			// ------------------------------
			secured.GET("/users", byID(userHandler.Get, userHandler.List))
			secured.POST("/users", userHandler.Create)
			secured.PATCH("/users", userHandler.Update)
			secured.DELETE("/users", userHandler.Delete)

			secured.GET("/invoices", byID(invoiceHandler.Get, invoiceHandler.List))
			secured.POST("/invoices", invoiceHandler.Create)
			secured.PATCH("/invoices", invoiceHandler.Update)
			secured.DELETE("/invoices", invoiceHandler.Delete)
			secured.POST("/invoices/payment-link", invoiceHandler.PaymentLink)

			// ------------------------------
			// SITE
			// ------------------------------
			secured.GET("/site", siteHandler.Get)
			secured.PATCH("/site", siteHandler.Update)

			secured.GET("/team", teamHandler.List)
			secured.POST("/team", teamHandler.Create)
			secured.PATCH("/team", teamHandler.Update)
			secured.DELETE("/team", teamHandler.Delete)

			secured.GET("/contact", contactHandler.List)
			secured.DELETE("/contact", contactHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
