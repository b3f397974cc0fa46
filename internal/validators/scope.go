package validators

import (
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
)

// ValidateScope allows at most one visibility target. No target at all is
// accepted; the item is simply not shown on any public page.
func ValidateScope(s models.Scope) error {
	n := 0
	for _, set := range []bool{
		s.Global,
		s.ServicesGlobal,
		s.FormationsGlobal,
		s.ServiceID != nil,
		s.FormationID != nil,
	} {
		if set {
			n++
		}
	}
	if n > 1 {
		return httperr.ErrBusiness("invalid_scope")
	}
	return nil
}

func ValidateRating(r int) error {
	if r < 1 || r > 5 {
		return httperr.ErrBusiness("invalid_rating")
	}
	return nil
}
