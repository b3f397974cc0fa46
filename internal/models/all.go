package models

// All lists every persisted model in dependency order for migrations.
func All() []any {
	return []any{
		&User{},
		&Service{},
		&Formation{},
		&Reservation{},
		&BlockedSlot{},
		&Review{},
		&GalleryItem{},
		&FAQ{},
		&Invoice{},
		&SiteIdentity{},
		&TeamMember{},
		&ContactMessage{},
		&AuditLog{},
	}
}
