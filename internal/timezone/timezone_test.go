package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "Europe/Paris", Location("").String())
	assert.Equal(t, "Europe/Paris", Location("Mars/Olympus").String())
	assert.Equal(t, "America/Sao_Paulo", Location("America/Sao_Paulo").String())
}

func TestToday(t *testing.T) {
	assert.Len(t, Today(Location("")), len("2006-01-02"))
}
