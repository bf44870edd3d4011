package domain

import (
	"fmt"
	"strings"
)

// Identity is the platform-assigned user identifier.
type Identity int64

// PublicCode is the short user-facing code shown in place of the Identity.
type PublicCode string

const (
	// CityUnset marks an account that has not chosen a city yet.
	CityUnset = "unset"

	PublicCodeLength   = 5
	PublicCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type AccountRecord struct {
	Identity         Identity
	PublicCode       PublicCode
	CreditBalance    int64
	City             string
	FreeUsesConsumed int64
}

func NewAccountRecord(identity Identity, code PublicCode) AccountRecord {
	return AccountRecord{
		Identity:   identity,
		PublicCode: code,
		City:       CityUnset,
	}
}

func (a AccountRecord) HasCity() bool {
	return a.City != "" && a.City != CityUnset
}

// FreeUsesLeft never goes below zero.
func (a AccountRecord) FreeUsesLeft(freeLimit int64) int64 {
	left := freeLimit - a.FreeUsesConsumed
	if left < 0 {
		return 0
	}
	return left
}

func (a AccountRecord) Validate() error {
	if !a.PublicCode.Valid() {
		return fmt.Errorf("%w: public code %q", ErrValidation, a.PublicCode)
	}
	if a.CreditBalance < 0 {
		return fmt.Errorf("%w: credit balance %d is negative", ErrValidation, a.CreditBalance)
	}
	if a.FreeUsesConsumed < 0 {
		return fmt.Errorf("%w: free uses %d is negative", ErrValidation, a.FreeUsesConsumed)
	}
	if strings.ContainsAny(a.City, "|\r\n") {
		return fmt.Errorf("%w: city %q contains a reserved character", ErrValidation, a.City)
	}

	return nil
}

func NormalizePublicCode(raw string) PublicCode {
	return PublicCode(strings.ToUpper(strings.TrimSpace(raw)))
}

func (c PublicCode) Valid() bool {
	if len(c) != PublicCodeLength {
		return false
	}
	for _, r := range string(c) {
		if !strings.ContainsRune(PublicCodeAlphabet, r) {
			return false
		}
	}

	return true
}
