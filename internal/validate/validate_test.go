package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "Email is required", Email(""))
	assert.Equal(t, "Invalid email address", Email("not-an-email"))
	assert.Empty(t, Email("a@x.com"))
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{name: "empty", password: "", want: "Password is required"},
		{name: "too short", password: "abc", want: "Password must be at least 8 characters"},
		{name: "no uppercase", password: "abcdefg1", want: "Password must contain at least one uppercase letter"},
		{name: "no lowercase", password: "ABCDEFG1", want: "Password must contain at least one lowercase letter"},
		{name: "no digit", password: "Abcdefgh", want: "Password must contain at least one number"},
		{name: "valid", password: "Abcdefg1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Password(tt.password))
		})
	}
}

func TestRegistration(t *testing.T) {
	errs := Registration("a@x.com", "Abcdefg1", "Abcdefg1")
	require.Nil(t, errs)

	errs = Registration("bad", "abc", "other")
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "confirmPassword")
}
