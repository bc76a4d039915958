package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailFormatValid(t *testing.T) {
	valid := []string{
		"ana@example.com",
		"first.last@example.co.uk",
		"user-name@sub.example.org",
		"u123@example.io",
	}
	for _, e := range valid {
		assert.True(t, IsEmailFormatValid(e), e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@@example.com",
		"user@example",
		"user name@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsEmailFormatValid(e), e)
	}
}
