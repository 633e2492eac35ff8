// Package parserpool wraps a pool of gnparser instances used to
// canonicalize scientific-name queries before matching. Parsing is pure
// computation; the pool only bounds the cost of gnparser construction.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnparser"
)

// Pool hands out gnparser instances for concurrent canonicalization.
type Pool interface {
	// Canonical parses a name string and returns its canonical simple
	// form ("Apis mellifera Linnaeus, 1758" → "Apis mellifera"). The
	// second value is false when the string does not parse as a
	// scientific name, in which case the input is returned unchanged.
	Canonical(name string) (string, bool)

	// Close drains the pool. The pool must not be used afterwards.
	Close()
}

type poolImpl struct {
	ch   chan gnparser.GNparser
	size int
}

// NewPool creates a parser pool of the given size; zero defaults to the
// number of CPUs.
func NewPool(jobsNum int) Pool {
	size := jobsNum
	if size == 0 {
		size = runtime.NumCPU()
	}
	cfg := gnparser.NewConfig()
	return &poolImpl{
		ch:   gnparser.NewPool(cfg, size),
		size: size,
	}
}

func (p *poolImpl) Canonical(name string) (string, bool) {
	parser := <-p.ch
	res := parser.ParseName(name)
	p.ch <- parser

	if !res.Parsed || res.Canonical == nil || res.Canonical.Simple == "" {
		return name, false
	}
	return res.Canonical.Simple, true
}

func (p *poolImpl) Close() {
	for range p.size {
		<-p.ch
	}
	close(p.ch)
}
