package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	validate = newValidator()
)

// MaxEventHorizon is how far ahead an event may be scheduled
const MaxEventHorizon = 2

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// FieldErrors maps a request field to a human readable message
type FieldErrors map[string]string

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mixedcase", func(fl validator.FieldLevel) bool {
		var lower, upper, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return lower && upper && digit
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
	return v
}

type rsvpInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,basicemail"`
}

var rsvpMessages = map[string]map[string]string{
	"name": {
		"required": "Full name is required",
		"min":      "Name must be at least 2 characters long",
		"max":      "Name must be less than 100 characters",
	},
	"email": {
		"required":   "Email address is required",
		"basicemail": "Please enter a valid email address",
	},
}

// ValidateRSVP checks an RSVP submission. Inputs are trimmed first.
func ValidateRSVP(name, email string) FieldErrors {
	in := rsvpInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	return collect(validate.Struct(in), rsvpMessages)
}

type registrationInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,basicemail"`
	Password string `json:"password" validate:"required,min=6,bcryptlen,mixedcase"`
}

var registrationMessages = map[string]map[string]string{
	"name": {
		"required": "Full name is required",
		"min":      "Name must be at least 2 characters long",
		"max":      "Name must be less than 50 characters",
	},
	"email": {
		"required":   "Email address is required",
		"basicemail": "Please enter a valid email address",
	},
	"password": {
		"required":  "Password is required",
		"min":       "Password must be at least 6 characters long",
		"bcryptlen": "Password must be at most 72 bytes long",
		"mixedcase": "Password must contain at least one uppercase letter, one lowercase letter, and one number",
	},
}

// ValidateRegistration checks a sign-up request. The password is not trimmed.
func ValidateRegistration(name, email, password string) FieldErrors {
	in := registrationInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	return collect(validate.Struct(in), registrationMessages)
}

type eventInput struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Location    string `json:"location" validate:"max=200"`
	Date        string `json:"date" validate:"required,rfc3339"`
}

var eventMessages = map[string]map[string]string{
	"title": {
		"required": "Title is required",
		"min":      "Title must be at least 3 characters long",
		"max":      "Title must be less than 100 characters",
	},
	"description": {
		"max": "Description must be less than 1000 characters",
	},
	"location": {
		"max": "Location must be less than 200 characters",
	},
	"date": {
		"required": "Date is required and must be a valid date string",
		"rfc3339":  "Date must be a valid date",
	},
}

// ValidateEvent checks an event creation request against now and returns
// the parsed date when the date itself is valid.
func ValidateEvent(title string, description, location *string, date string, now time.Time) (time.Time, FieldErrors) {
	in := eventInput{
		Title: strings.TrimSpace(title),
		Date:  strings.TrimSpace(date),
	}
	if description != nil {
		in.Description = *description
	}
	if location != nil {
		in.Location = *location
	}

	errs := collect(validate.Struct(in), eventMessages)
	if _, bad := errs["date"]; bad {
		return time.Time{}, errs
	}

	parsed, _ := time.Parse(time.RFC3339, in.Date)
	switch {
	case !parsed.After(now):
		errs = errs.add("date", "Event date must be in the future")
	case parsed.After(now.AddDate(MaxEventHorizon, 0, 0)):
		errs = errs.add("date", "Event date cannot be more than 2 years in the future")
	}
	return parsed, errs
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (f FieldErrors) add(field, msg string) FieldErrors {
	if f == nil {
		f = FieldErrors{}
	}
	f[field] = msg
	return f
}

// collect turns validator errors into field messages. Only the first
// failing rule of each field is reported.
func collect(err error, messages map[string]map[string]string) FieldErrors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}
