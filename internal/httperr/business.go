package httperr

import (
	"errors"
	"strings"
)

// BusinessError is a rule violation raised by a use case. Code is a key of
// the message catalogue.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf unwraps err down to a BusinessError.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsBusiness(err error, code string) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}

// IsConflict reports a schedule overlap (booking_conflict, blocked_conflict).
func IsConflict(code string) bool {
	return strings.HasSuffix(code, "_conflict")
}
