package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMercadoPagoRequiresToken(t *testing.T) {
	_, err := NewMercadoPago("")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewMercadoPagoBuildsClients(t *testing.T) {
	mp, err := NewMercadoPago("TEST-0000")
	assert.NoError(t, err)
	assert.NotNil(t, mp.preferences)
	assert.NotNil(t, mp.payments)
}
