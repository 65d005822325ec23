package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKenyanPhonePattern(t *testing.T) {
	valid := []string{
		"0712345678",
		"0110123456",
		"0433123456", // Nyeri landline
		"+254712345678",
		"+254203456789",
	}
	for _, number := range valid {
		assert.True(t, kenyanPhonePattern.MatchString(number), number)
	}

	invalid := []string{
		"0012345678",   // leading zero after the trunk prefix
		"071234567",    // too short
		"07123456789",  // too long
		"712345678",    // missing prefix
		"+25571234567", // wrong country code
		"07a2345678",
	}
	for _, number := range invalid {
		assert.False(t, kenyanPhonePattern.MatchString(number), number)
	}
}

func TestTimeSlotPattern(t *testing.T) {
	for _, slot := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, timeSlotPattern.MatchString(slot), slot)
	}
	for _, slot := range []string{"24:00", "9:30", "12:60", "12:5", "noon"} {
		assert.False(t, timeSlotPattern.MatchString(slot), slot)
	}
}
