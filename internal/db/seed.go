package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/validators"
)

type SeedOptions struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// SeedReport tells which tables received rows. Tables that already had data
// are left alone.
type SeedReport struct {
	SiteIdentity bool
	Team         bool
	Admin        bool
	Services     int
	Formations   int
	FAQ          int
}

func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (*SeedReport, error) {
	report := &SeedReport{}
	tx := db.WithContext(ctx)

	empty := func(model any) (bool, error) {
		var n int64
		if err := tx.Model(model).Count(&n).Error; err != nil {
			return false, err
		}
		return n == 0, nil
	}

	// --------------------------------------------------
	// Site identity
	// --------------------------------------------------
	if ok, err := empty(&models.SiteIdentity{}); err != nil {
		return nil, err
	} else if ok {
		site := models.SiteIdentity{
			ID:           1,
			Name:         "Neill Make Up à Annecy",
			Slogan:       "Sublimez votre beauté, révélez votre personnalité",
			Description:  "Prestations de maquillage professionnel, formations et conseils beauté à Annecy.",
			Address:      "12 rue Royale",
			PostalCode:   "74000",
			City:         "Annecy",
			Country:      "France",
			Email:        "contact@neillmakeup.fr",
			SiteURL:      "https://www.neillmakeup.fr",
			Logo:         "/assets/logo-neillmakeup-annecy.svg",
			Instagram:    "https://instagram.com/neillmakeup",
			OpeningHours: "Lundi-samedi 9h-19h, sur rendez-vous",
		}
		if err := tx.Create(&site).Error; err != nil {
			return nil, fmt.Errorf("seed site identity: %w", err)
		}
		report.SiteIdentity = true
	}

	// --------------------------------------------------
	// Team
	// --------------------------------------------------
	if ok, err := empty(&models.TeamMember{}); err != nil {
		return nil, err
	} else if ok {
		member := models.TeamMember{
			Name:     "Neill Dupont",
			Role:     "Maquilleuse Professionnelle & Formatrice",
			Photo:    "/assets/team-neill-dupont.webp",
			Position: 1,
			IsActive: true,
		}
		if err := tx.Create(&member).Error; err != nil {
			return nil, fmt.Errorf("seed team: %w", err)
		}
		report.Team = true
	}

	// --------------------------------------------------
	// Admin
	// --------------------------------------------------
	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		created, err := EnsureAdmin(ctx, db, opts.AdminName, opts.AdminEmail, opts.AdminPassword)
		if err != nil {
			return nil, err
		}
		report.Admin = created
	}

	// --------------------------------------------------
	// Catalogue
	// --------------------------------------------------
	if ok, err := empty(&models.Service{}); err != nil {
		return nil, err
	} else if ok {
		for _, s := range seedServices() {
			s.Slug = validators.Slugify(s.Name)
			if err := tx.Create(&s).Error; err != nil {
				return nil, fmt.Errorf("seed service %s: %w", s.Slug, err)
			}
			report.Services++
		}
	}

	if ok, err := empty(&models.Formation{}); err != nil {
		return nil, err
	} else if ok {
		f := models.Formation{
			Title:           "Formation Maquillage Professionnel",
			Description:     "Formation complète pour devenir maquilleur professionnel.",
			Price:           decimal.NewFromInt(1200),
			Category:        "Professionnel",
			Tags:            []string{"formation", "professionnel", "technique"},
			Steps:           []string{"Théorie", "Pratique", "Évaluation", "Certification"},
			DurationLabel:   "5 jours",
			DurationMinutes: 2400,
			Certification:   "Certificat Neill Make Up",
			IsActive:        true,
			IsFeatured:      true,
		}
		f.Slug = validators.Slugify(f.Title)
		if err := tx.Create(&f).Error; err != nil {
			return nil, fmt.Errorf("seed formation: %w", err)
		}
		report.Formations++
	}

	if ok, err := empty(&models.FAQ{}); err != nil {
		return nil, err
	} else if ok {
		faqs := []models.FAQ{
			{Question: "Faut-il prévoir un essai avant le jour J ?", Answer: "Oui, l'essai est recommandé deux semaines avant l'événement.", Global: true},
			{Question: "Vous déplacez-vous à domicile ?", Answer: "Oui, sur Annecy et ses environs, frais de déplacement selon la distance.", ServicesGlobal: true},
		}
		for i := range faqs {
			if err := tx.Create(&faqs[i]).Error; err != nil {
				return nil, fmt.Errorf("seed faq: %w", err)
			}
			report.FAQ++
		}
	}

	return report, nil
}

// EnsureAdmin creates an admin account unless the email is already taken.
// It reports whether a row was inserted.
func EnsureAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error) {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("invalid admin email")
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	if name == "" {
		name = "Admin"
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func seedServices() []models.Service {
	return []models.Service{
		{
			Name:            "Maquillage Mariée",
			Description:     "Le jour J mérite un maquillage d'exception.",
			Content:         "Prestation complète incluant essai, maquillage du jour J et retouches.",
			Notes:           "Essai obligatoire 2 semaines avant.",
			Price:           decimal.NewFromInt(250),
			Image:           "/assets/service-maquillage-mariee.webp",
			ImageAlt:        "Maquillage mariée romantique et intemporel",
			Icon:            "mdi:heart",
			Category:        "Mariage",
			Tags:            []string{"mariée", "mariage", "romantique", "longue tenue"},
			Steps:           []string{"Consultation", "Essai maquillage", "Jour J", "Retouches"},
			DurationLabel:   "3h (essai + jour J)",
			DurationMinutes: 180,
			IsActive:        true,
			IsFeatured:      true,
		},
		{
			Name:            "Shooting Photo",
			Description:     "Maquillage professionnel adapté à la photographie.",
			Price:           decimal.NewFromInt(120),
			Image:           "/assets/service-shooting-photo.webp",
			ImageAlt:        "Maquillage professionnel pour shooting photo",
			Icon:            "mdi:camera",
			Category:        "Professionnel",
			Tags:            []string{"photo", "shooting", "studio"},
			Steps:           []string{"Brief créatif", "Préparation peau", "Maquillage", "Retouches plateau"},
			DurationLabel:   "2h",
			DurationMinutes: 120,
			IsActive:        true,
			IsFeatured:      true,
		},
	}
}
