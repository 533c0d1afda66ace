package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

func TestPasswordOK(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Abcdef1", true},
		{"Abcdef", true},
		{"aBCDEF", true},
		// no uppercase
		{"abcdef", false},
		// no lowercase
		{"ABCDEF", false},
		// too short
		{"Ab1", false},
		{"", false},
		// digits only
		{"123456", false},
	}
	for _, tc := range cases {
		t.Run(tc.password, func(t *testing.T) {
			assert.Equal(t, tc.ok, passwordOK(tc.password))
		})
	}
}

func TestRegisterFormValidation(t *testing.T) {
	v := newValidator()

	valid := registerForm{
		Name:     "Rashel Ahmed",
		PhotoURL: "https://example.com/p.png",
		Email:    "a@example.com",
		Password: "Abcdef1",
	}

	t.Run("accepts a complete form", func(t *testing.T) {
		require.NoError(t, v.Struct(valid))
	})

	t.Run("rejects a short name", func(t *testing.T) {
		f := valid
		f.Name = "Bob"
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "Name must be at least 5 characters long", validationMessage(err))
	})

	t.Run("rejects a weak password before any provider call", func(t *testing.T) {
		f := valid
		f.Password = "abcdef"
		err := v.Struct(f)
		require.Error(t, err)
		assert.Contains(t, validationMessage(err), "Password must be at least 6 characters")
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		f := valid
		f.Email = "not-an-email"
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "Please enter a valid email address", validationMessage(err))
	})

	t.Run("rejects a malformed photo url", func(t *testing.T) {
		f := valid
		f.PhotoURL = "not a url"
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "Please enter a valid URL", validationMessage(err))
	})
}

func TestCourseFormValidation(t *testing.T) {
	v := newValidator()

	valid := courseForm{
		Title:       "Go Basics",
		Thumbnail:   "https://example.com/t.png",
		Price:       19.99,
		Duration:    "8 hours",
		Category:    "Programming",
		Description: "An introduction.",
	}

	t.Run("accepts a complete form", func(t *testing.T) {
		require.NoError(t, v.Struct(valid))
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		f := valid
		f.Title = ""
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "Title is required", validationMessage(err))
	})
}

func TestAuthMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"email in use",
			dErrors.New(dErrors.CodeEmailInUse, "email already registered"),
			"This email is already in use. Please try a different email.",
		},
		{
			"wrong password",
			dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password"),
			"Invalid email or password.",
		},
		{
			"unknown email treated like wrong password",
			dErrors.New(dErrors.CodeUserNotFound, "no account for this email"),
			"Invalid email or password.",
		},
		{
			"network failure",
			dErrors.New(dErrors.CodeNetwork, "course api unreachable"),
			"Could not reach the server. Please try again.",
		},
		{
			"unknown code falls back",
			dErrors.New(dErrors.CodeInternal, "boom"),
			"Login failed. Please try again.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authMessage(tc.err, "Login failed. Please try again."))
		})
	}
}
