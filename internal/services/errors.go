package services

import (
	"errors"
	"strings"

	"kemstore/internal/repos"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBadCreds         = errors.New("invalid email or password")
	ErrNoUsers          = errors.New("no users found")
	ErrEmailTaken       = repos.ErrEmailTaken
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = repos.ErrOrderNotFound
	ErrAddressNotFound  = errors.New("address not found")
)

// ValidationError carries the customer-facing messages for rejected input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Problems, " ") }

func invalid(problems ...string) error { return &ValidationError{Problems: problems} }
