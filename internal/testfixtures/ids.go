package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic identifiers in the shape the controller's
// NewID option expects.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
	err     error
}

// NewIDGenerator yields "<prefix>-1", "<prefix>-2", ... When prefix is empty,
// "id" is used.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier, or the injected failure.
func (g *IDGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter), nil
}

// FailWith makes every following Next call return err. A nil err restores
// normal behaviour.
func (g *IDGenerator) FailWith(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

// Issued reports how many identifiers have been handed out.
func (g *IDGenerator) Issued() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}
