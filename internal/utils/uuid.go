package utils

import "github.com/google/uuid"

// UUIDGenerator produces identifiers for lock tokens and trace ids.
// Version 7 UUIDs are preferred for their time-ordered layout; generation
// falls back to version 4 if the system entropy source misbehaves.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
