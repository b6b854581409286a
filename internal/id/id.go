// Package id provides unique-id generation behind an interface so
// services can be tested with deterministic ids.
package id

import "github.com/google/uuid"

// Generator produces unique identifiers.
type Generator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDv4 identifiers.
type UUIDGenerator struct{}

// NewID returns a fresh UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewGenerator returns the default uuid-backed generator.
func NewGenerator() Generator {
	return UUIDGenerator{}
}
