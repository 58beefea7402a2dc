package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRestaurantSuffix(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"rest-a01", "A01"},
		{"7f3c2b1e-aaaa-bbbb-cccc-1234567890ab", "0AB"},
		{"abc", "ABC"},
		{"ab", "0AB"},
		{"7", "007"},
		{"", "000"},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.want, RestaurantSuffix(tc.id))
		})
	}
}

func TestFormatOrderNumber(t *testing.T) {
	day := OrderDay(time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, "240305", day)

	assert.Equal(t, "240305-A01-001", FormatOrderNumber(day, "rest-a01", 1))
	assert.Equal(t, "240305-A01-042", FormatOrderNumber(day, "rest-a01", 42))
	assert.Equal(t, "240305-007-999", FormatOrderNumber(day, "7", 999))
	// melewati 999 tidak kembali ke 000
	assert.Equal(t, "240305-A01-1000", FormatOrderNumber(day, "rest-a01", 1000))
}

func TestOrderDay_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	instant := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "240305", OrderDay(instant, time.UTC))
	assert.Equal(t, "240306", OrderDay(instant, jakarta))
}
