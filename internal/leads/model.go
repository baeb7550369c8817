package leads

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// UnknownAddress marks a submission whose source address could not be resolved.
const UnknownAddress = "Unknown"

// SubmitRequest is the JSON body posted by the lead form.
type SubmitRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Experience  string `json:"experience"`
	Message     string `json:"message"`
	Platform    string `json:"platform"`
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	IsSpam      bool   `json:"isSpam"`
	SpamReason  string `json:"spamReason"`
	Honeypot    string `json:"honeypot"`
}

// Lead is a normalized form submission as notified and stored.
type Lead struct {
	ID          int64     `json:"id,omitempty"`
	FirstName   string    `json:"firstName" validate:"required"`
	LastName    string    `json:"lastName" validate:"required"`
	Email       string    `json:"email" validate:"required"`
	Phone       string    `json:"phone" validate:"required"`
	Experience  string    `json:"experience,omitempty"`
	Message     string    `json:"message,omitempty"`
	Platform    string    `json:"platform"`
	CountryCode string    `json:"countryCode"`
	CountryName string    `json:"countryName"`
	IPAddress   string    `json:"ipAddress"`
	IsSpam      bool      `json:"isSpam"`
	SpamReason  string    `json:"spamReason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the required contact fields. The returned error wraps ErrValidation
// and names the missing fields.
func (l *Lead) Validate() error {
	err := validate.Struct(l)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("leads: validate: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}

// DisplayPhone strips leading plus signs; the notification adds its own.
func (l *Lead) DisplayPhone() string {
	return strings.TrimLeft(l.Phone, "+")
}
