package services

import (
	"fmt"
	"sort"
	"strings"
)

var (
	ErrArtworkNotFound    = fmt.Errorf("artwork not found")
	ErrChildNotFound      = fmt.Errorf("child profile not found")
	ErrDeleteNotConfirmed = fmt.Errorf("deletion was not confirmed")
	ErrNoPendingImport    = fmt.Errorf("there is no import waiting for confirmation")
	ErrNotConfigured      = fmt.Errorf("service is not configured")
	ErrNotUserUpload      = fmt.Errorf("only uploaded artwork can be changed")
	ErrPaymentDeclined    = fmt.Errorf("payment was declined")
	ErrSignInRequired     = fmt.Errorf("sign in required")
	ErrValidation         = fmt.Errorf("validation failed")
)

/*
ValidationErrors maps a form field name to a message meant for the user.
*/
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))

	for field := range v {
		fields = append(fields, field)
	}

	sort.Strings(fields)
	messages := make([]string, 0, len(fields))

	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, v[field]))
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Err returns nil when there are no validation errors.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}

	return v
}
