// Package ident issues appointment identities: monotonically
// increasing, never reused within a process. The generator is injected
// into the service so tests can pin the numbering.
package ident

import "sync/atomic"

// Base is where appointment numbering starts on a fresh installation.
const Base int64 = 1000

type Generator struct {
	last atomic.Int64
}

// NewGenerator returns a generator whose first Next is base.
func NewGenerator(base int64) *Generator {
	g := &Generator{}
	g.last.Store(base - 1)
	return g
}

func (g *Generator) Next() int64 {
	return g.last.Add(1)
}

// Observe tells the generator an identity is already in use; later
// Next calls will stay above it. Used when reloading persisted
// appointments with their original identities.
func (g *Generator) Observe(id int64) {
	for {
		cur := g.last.Load()
		if cur >= id {
			return
		}
		if g.last.CompareAndSwap(cur, id) {
			return
		}
	}
}
