// Package builder implements the online model builder of spec.md §4.9: a
// demand-driven walk of the eval graph (package evalgraph) that produces
// one answer set at a time, joining predecessor OUTPROJ models into each
// unit's IN model, solving the unit, and checking every candidate OUT
// model for foundedness before it is exposed as an OUTPROJ model to the
// unit's successors.
package builder

import (
	"github.com/hexhex/core/ground"
	"github.com/hexhex/core/registry"
	"github.com/hexhex/core/solver"
)

// Session is one eval unit's model-generator activation for a fixed input
// interpretation: the solver/grounder pair the unit's rules were compiled
// into, plus the founded-model retry loop spec.md §4.4 describes (a
// candidate that fails the unfounded-set check is rejected by feeding its
// loop nogoods back to the solver, never treated as a dead end).
type Session struct {
	reg      *registry.Registry
	grounder *ground.Grounder
	cdnl     *solver.CDNL
}

// NewSession Clark-completes reg's current ground rules and opens a CDNL
// solver session over the resulting universe (every ground atom plus the
// completion's auxiliary body variables).
func NewSession(reg *registry.Registry) *Session {
	g := ground.Ground(reg)
	return &Session{
		reg:      reg,
		grounder: g,
		cdnl:     solver.New(g.Universe(reg), g.Nogoods()),
	}
}

// Next returns the session's next founded model, or ok=false once the
// unit's search space is exhausted.
func (s *Session) Next() (*registry.Interpretation, bool) {
	for {
		outcome, model := s.cdnl.GetNextModel(s.reg)
		if outcome != solver.OutcomeModel {
			return nil, false
		}
		founded, loops := s.grounder.CheckModel(model)
		if founded {
			return model, true
		}
		for _, ng := range loops {
			s.cdnl.AddNogood(ng)
		}
	}
}
