package web

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// Form validation is entirely local: a failed form never reaches the
// data-access layer or the identity provider.

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerForm struct {
	Name     string `validate:"required,min=5"`
	PhotoURL string `validate:"required,url"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

type forgotPasswordForm struct {
	Email string `validate:"required,email"`
}

type courseForm struct {
	Title       string  `validate:"required"`
	Thumbnail   string  `validate:"required,url"`
	Price       float64 `validate:"required,gte=0"`
	Duration    string  `validate:"required"`
	Category    string  `validate:"required"`
	Description string  `validate:"required"`
	IsFeatured  bool
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Password rule: at least 6 characters with one uppercase and one
	// lowercase letter.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordOK(fl.Field().String())
	})
	return v
}

func passwordOK(password string) bool {
	if len(password) < 6 {
		return false
	}
	var upper, lower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	return upper && lower
}

// validationMessage turns the first field error into the user-facing message
// the pages show inline.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Please check the form and try again."
	}
	fe := errs[0]
	switch {
	case fe.Field() == "Name" && fe.Tag() == "min":
		return "Name must be at least 5 characters long"
	case fe.Field() == "Password" && fe.Tag() == "password":
		return "Password must be at least 6 characters long and contain an uppercase and a lowercase letter"
	case fe.Tag() == "email":
		return "Please enter a valid email address"
	case fe.Tag() == "url":
		return "Please enter a valid URL"
	case fe.Tag() == "required":
		return fe.Field() + " is required"
	case fe.Tag() == "gte":
		return fe.Field() + " must not be negative"
	default:
		return "Please check the form and try again."
	}
}

// authMessage maps identity-provider failures to the messages the original
// pages showed; unknown codes fall back to a generic retry message.
func authMessage(err error, fallback string) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeEmailInUse:
		return "This email is already in use. Please try a different email."
	case dErrors.CodeWeakPassword:
		return "The password is too weak. Please choose a stronger password."
	case dErrors.CodeInvalidEmail:
		return "The email address is not valid. Please enter a valid email."
	case dErrors.CodeInvalidCredentials, dErrors.CodeUserNotFound:
		return "Invalid email or password."
	case dErrors.CodeNetwork:
		return "Could not reach the server. Please try again."
	default:
		return fallback
	}
}

func trimmed(v string) string {
	return strings.TrimSpace(v)
}
