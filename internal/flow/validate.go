package flow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"issuepilot/internal/apperror"
)

const (
	MinNameLen     = 3
	MinPasswordLen = 6
	OTPLen         = 6
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their form key ("email", "otp") instead of the Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type signupForm struct {
	Name     string `form:"name" validate:"min=3"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6"`
}

type otpForm struct {
	OTP string `form:"otp" validate:"len=6"`
}

type repoForm struct {
	RepoURL string `form:"repoUrl" validate:"required"`
}

type ideaForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
}

var (
	loginMessages = map[string]string{
		"email":    "Invalid email address",
		"password": "Password is required",
	}
	signupMessages = map[string]string{
		"name":     "Name must be at least 3 characters",
		"email":    "Invalid email address",
		"password": "Password must be at least 6 characters",
	}
	otpMessages  = map[string]string{"otp": "OTP must be 6 digits"}
	repoMessages = map[string]string{"repoUrl": "Repository URL is required"}
	ideaMessages = map[string]string{
		"title":       "Title is required",
		"description": "Description is required",
	}
)

// ValidEmail reports whether s is an acceptable email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// FieldErrors is the set of field-level validation failures of one form.
type FieldErrors []*apperror.AppError

// For returns the message for field, or "".
func (fe FieldErrors) For(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func (fe FieldErrors) OK() bool { return len(fe) == 0 }

// check runs the struct tags of form and maps each failing field to its
// message. At most one error is reported per field.
func check(form any, messages map[string]string) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{apperror.ValidationFailed("", err.Error())}
	}
	var fe FieldErrors
	for _, v := range verrs {
		field := v.Field()
		if fe.For(field) != "" {
			continue
		}
		msg, ok := messages[field]
		if !ok {
			msg = v.Error()
		}
		fe = append(fe, apperror.ValidationFailed(field, msg))
	}
	return fe
}

func ValidateLogin(email, password string) FieldErrors {
	return check(loginForm{Email: email, Password: password}, loginMessages)
}

func ValidateSignup(name, email, password string) FieldErrors {
	return check(signupForm{Name: name, Email: email, Password: password}, signupMessages)
}

func ValidateOTP(otp string) FieldErrors {
	return check(otpForm{OTP: otp}, otpMessages)
}

func ValidateRepoURL(repoURL string) FieldErrors {
	return check(repoForm{RepoURL: strings.TrimSpace(repoURL)}, repoMessages)
}

func ValidateIdea(title, description string) FieldErrors {
	return check(ideaForm{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}, ideaMessages)
}
