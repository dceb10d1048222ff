package models

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out fresh, globally unique identifiers
type IDGenerator interface {
	NewID() string
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// UUIDGenerator generates random UUIDv4 identifiers
type UUIDGenerator struct{}

// NewID returns a new random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// SequenceGenerator returns prefix-1, prefix-2, ... and is safe for concurrent use.
// Useful wherever identifiers must be predictable, such as tests.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewID returns the next identifier in the sequence
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.n.Add(1))
}

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
