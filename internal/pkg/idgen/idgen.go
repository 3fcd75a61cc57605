package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out identifiers for surveys and questions.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues prefix1, prefix2, ... and is meant for tests and
// reproducible fixtures.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewSequence(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.prefix, g.next.Add(1))
}

// Func adapts a plain function to Generator.
type Func func() string

func (f Func) NewID() string {
	return f()
}
