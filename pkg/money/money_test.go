package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplay(t *testing.T) {
	assert.Equal(t, "199.90", ToDisplay(19990))
	assert.Equal(t, "0.05", ToDisplay(5))
	assert.Equal(t, "0.00", ToDisplay(0))
	assert.Equal(t, "12.00", ToDisplay(1200))
	assert.Equal(t, "-3.50", ToDisplay(-350))
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(19990), ToCents(199.90))
	assert.Equal(t, int64(1), ToCents(0.01))
	assert.Equal(t, int64(0), ToCents(0))
	assert.Equal(t, int64(-350), ToCents(-3.50))

	// 29.99 is not exactly representable in binary; rounding must absorb it.
	assert.Equal(t, int64(2999), ToCents(29.99))
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 19990, 123456789} {
		assert.Equal(t, cents, ToCents(float64(cents)/100))
	}
}
