package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields sequential identifiers ("client-1", "client-2", ...) in
// the shape the services' injected idGenerator expects, so tests can assert
// on exact IDs.
type IDGenerator struct {
	mu       sync.Mutex
	prefix   string
	sequence uint64
}

// NewIDGenerator constructs a generator for the given prefix, defaulting to
// "id" when the prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sequence++
	return fmt.Sprintf("%s-%d", g.prefix, g.sequence)
}

// NextFunc exposes Next in the shape the service constructors expect.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// SetPrefix changes the prefix for subsequently generated identifiers.
func (g *IDGenerator) SetPrefix(prefix string) {
	g.mu.Lock()
	g.prefix = prefix
	g.mu.Unlock()
}

// SetCounter overrides the sequence position so a test can reset or skip
// ahead deterministically.
func (g *IDGenerator) SetCounter(counter uint64) {
	g.mu.Lock()
	g.sequence = counter
	g.mu.Unlock()
}
