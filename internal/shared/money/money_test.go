package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "€25.00", Format("EUR", 2500))
	assert.Equal(t, "€25.00", Format("eur", 2500))
	assert.Equal(t, "€0.50", Format("EUR", 50))
	assert.Equal(t, "€0.00", Format("EUR", 0))
	assert.Equal(t, "$10.99", Format("USD", 1099))
	assert.Equal(t, "12.34 GBP", Format("GBP", 1234))
}
