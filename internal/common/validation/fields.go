// Package validation holds the field-level rules shared by the form wizards.
package validation

import (
	"errors"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Basic local@domain.tld shape. Deliberately loose: the webhook endpoint
	// owns real address verification.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[a-zA-Z]{2,}$`)

	// Digits plus the usual formatting symbols. Spaces are allowed but do
	// not count toward the minimum length.
	phoneAllowed = regexp.MustCompile(`^[+\d\s\-().]+$`)
)

const phoneMinSignificant = 9

// ValidateEmail reports whether the value has a plausible email shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidatePhone reports whether the value looks like a phone number: only
// digits/symbols, with at least 9 significant (non-space) characters.
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" || !phoneAllowed.MatchString(phone) {
		return false
	}
	significant := 0
	for _, r := range phone {
		if r != ' ' {
			significant++
		}
	}
	return significant >= phoneMinSignificant
}

// NotBlank fails on empty or whitespace-only strings.
var NotBlank = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
})

// EmailShape is the ozzo rule form of ValidateEmail.
var EmailShape = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if !ValidateEmail(s) {
		return errors.New("must be a valid email address")
	}
	return nil
})

// PhoneShape is the ozzo rule form of ValidatePhone.
var PhoneShape = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if !ValidatePhone(s) {
		return errors.New("must be a valid phone number")
	}
	return nil
})

// OneOf fails unless the value is one of the allowed strings.
func OneOf(allowed []string) ozzo.Rule {
	return ozzo.By(func(value interface{}) error {
		s, _ := value.(string)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return errors.New("must be one of the offered values")
	})
}
