package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Business writes a BusinessError using the status and message of the
// catalogue. Anything that is not a BusinessError becomes a 500.
func Business(c *gin.Context, err error) {
	code, ok := CodeOf(err)
	if !ok {
		Internal(c, "internal_error", "Erreur interne.")
		return
	}
	Write(c, StatusFor(code), code, MessageFor(code))
}

// ======================================================
// CATALOGUE
// ======================================================

var messages = map[string]string{
	"booking_conflict":       "Ce créneau chevauche une réservation existante.",
	"blocked_conflict":       "Ce créneau chevauche un autre créneau bloqué.",
	"slug_already_exists":    "Ce slug est déjà utilisé.",
	"email_already_exists":   "Cet e-mail est déjà utilisé.",
	"invalid_request":        "Données invalides.",
	"invalid_date_or_time":   "Date ou heure invalide.",
	"invalid_interval":       "La fin doit être postérieure au début.",
	"invalid_status":         "Statut inconnu.",
	"invalid_scope":          "Un seul périmètre peut être choisi.",
	"invalid_rating":         "La note doit être comprise entre 1 et 5.",
	"missing_id":             "Identifiant manquant.",
	"missing_title":          "Le titre est obligatoire.",
	"missing_start":          "La date de début est obligatoire.",
	"too_soon":               "Ce créneau est déjà passé.",
	"outside_opening_hours":  "Ce créneau est en dehors des horaires d'ouverture.",
	"service_not_found":      "Prestation introuvable.",
	"user_not_found":         "Utilisateur introuvable.",
	"invoice_not_found":      "Facture introuvable.",
	"reservation_not_found":  "Réservation introuvable.",
	"blocked_slot_not_found": "Créneau bloqué introuvable.",
	"formation_not_found":    "Formation introuvable.",
	"invalid_credentials":    "E-mail ou mot de passe incorrect.",
	"invalid_email":          "E-mail invalide.",
	"invalid_file_type":      "Format d'image non supporté.",
	"file_too_large":         "Fichier trop volumineux (5 Mo maximum).",
	"missing_file":           "Aucun fichier reçu.",
	"payment_provider_error": "Le prestataire de paiement est indisponible.",
	"not_found":              "Ressource introuvable.",
	"payments_disabled":      "Le paiement en ligne n'est pas configuré.",
	"missing_name":           "Le nom est obligatoire.",
	"missing_fields":         "Champs obligatoires manquants.",
	"missing_image":          "L'image est obligatoire.",
	"invalid_slug":           "Slug invalide.",
	"invalid_price":          "Le prix doit être positif.",
	"invalid_amount":         "Montant invalide.",
	"cannot_delete_self":     "Vous ne pouvez pas supprimer votre propre compte.",
	"invoice_already_paid":   "Cette facture est déjà réglée.",
}

// StatusFor resolves exact codes first, then the prefix and suffix
// families.
func StatusFor(code string) int {
	switch code {
	case "invalid_credentials":
		return http.StatusUnauthorized
	case "file_too_large":
		return http.StatusRequestEntityTooLarge
	case "payments_disabled":
		return http.StatusServiceUnavailable
	case "payment_provider_error":
		return http.StatusBadGateway
	case "invoice_already_paid":
		return http.StatusConflict
	case "cannot_delete_self", "too_soon", "outside_opening_hours":
		return http.StatusBadRequest
	}

	switch {
	case strings.HasSuffix(code, "_conflict"), strings.HasSuffix(code, "_already_exists"):
		return http.StatusConflict
	case strings.HasSuffix(code, "_not_found"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "invalid_"), strings.HasPrefix(code, "missing_"):
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
