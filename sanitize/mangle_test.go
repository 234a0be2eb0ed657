package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserInputString(t *testing.T) {
	f := UserInputString("email", "a@b.c\r\nINFO forged")
	assert.Equal(t, "a@b.cINFO forged", f.String)
}

func TestMaskedEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskedEmail("e", "jane@example.com").String)
	assert.Equal(t, "***", MaskedEmail("e", "broken").String)
	assert.Equal(t, "***", MaskedEmail("e", "@example.com").String)
}
