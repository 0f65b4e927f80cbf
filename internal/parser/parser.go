// Package parser normalizes each country's raw dataset into RawName records
// and a flat popularity time series. All six parsers share one contract:
// skip malformed rows, normalize the join key, aggregate counts over the
// source's recency window, cap output per gender, and re-derive dense ranks.
package parser

import (
	"github.com/rotisserie/eris"

	"github.com/twoyes/names-cli/internal/model"
)

// Parser converts one country's raw files into the common parse result.
type Parser interface {
	// Name returns the unique identifier for this parser (e.g., "ssa").
	Name() string

	// Country returns the country this parser covers.
	Country() model.Country

	// Parse reads the country's raw file(s) under dataDir and returns the
	// normalized names and popularity series.
	Parse(dataDir string) (*model.ParseResult, error)
}

// Registry maps countries to their parsers in merge order.
type Registry struct {
	parsers map[model.Country]Parser
	order   []model.Country
}

// NewRegistry creates a registry populated with all six country parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[model.Country]Parser)}
	r.Register(&SSA{})
	r.Register(&INSEE{})
	r.Register(&ONS{})
	r.Register(&Cologne{})
	r.Register(&INE{})
	r.Register(&ISTAT{})
	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	c := p.Country()
	r.parsers[c] = p
	r.order = append(r.order, c)
}

// Get returns the parser for a country.
func (r *Registry) Get(c model.Country) (Parser, error) {
	p, ok := r.parsers[c]
	if !ok {
		return nil, eris.Errorf("parser: no parser registered for country %q", c)
	}
	return p, nil
}

// All returns the parsers in registration order.
func (r *Registry) All() []Parser {
	out := make([]Parser, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.parsers[c])
	}
	return out
}
