// Package form implements the booking steps: each step edits a local copy of
// its draft section and only writes it back once every field is valid.
package form

import (
	"errors"
	"slices"
	"strings"

	"courier/internal/domain"
)

// ErrStepIncomplete is returned when proceeding with a required field empty.
var ErrStepIncomplete = errors.New("form: required fields are empty")

// FieldErrors maps a field key to its inline error message.
type FieldErrors map[string]string

// Error implements error.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fe[k])
	}
	return "form: " + strings.Join(msgs, "; ")
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// SanitizeMobile drops every non-digit and truncates to ten digits.
func SanitizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == domain.MobileNumberLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidMobile reports whether s is exactly ten digits.
func ValidMobile(s string) bool {
	return len(s) == domain.MobileNumberLength && SanitizeMobile(s) == s
}

// DeliveryMeansCatalog is the list of carriers a package can be sent with.
type DeliveryMeansCatalog []string

// DefaultCatalog offers the carriers the server accepts.
var DefaultCatalog = DeliveryMeansCatalog(domain.DeliveryMeans)

// Contains reports whether name is one of the offered carriers.
func (c DeliveryMeansCatalog) Contains(name string) bool {
	return slices.Contains(c, name)
}

func filled(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}

func validateParty(role, label, name, mobile, location, street, estate string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs[role+"Name"] = label + " name is required"
	}
	if !ValidMobile(mobile) {
		errs[role+"MobileNumber"] = label + " mobile number must be 10 digits"
	}
	if strings.TrimSpace(location) == "" {
		errs[role+"Location"] = label + " location is required"
	}
	if strings.TrimSpace(street) == "" {
		errs[role+"Street"] = label + " street is required"
	}
	if strings.TrimSpace(estate) == "" {
		errs[role+"Estate"] = label + " estate is required"
	}
	return errs
}
