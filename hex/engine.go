package hex

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hexhex/core/backend"
	"github.com/hexhex/core/builder"
	"github.com/hexhex/core/component"
	"github.com/hexhex/core/depgraph"
	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/herr"
	"github.com/hexhex/core/hex/config"
	"github.com/hexhex/core/registry"
)

// Engine is the evaluation core's top-level entry point: a registry
// already populated with a program's rules, wired to the eval graph its
// configured heuristic builds and the backend its configured name opens.
// Modeled on the teacher's Engine/Config/New/NewDefault shape, with every
// method now driving the HEX evaluation pipeline instead of SQL query
// execution.
type Engine struct {
	Config   config.Config
	Registry *registry.Registry
	Eval     *evalgraph.Graph
	Online   *builder.OnlineModelBuilder
	Offline  *builder.OfflineBuilder
	Backend  backend.Backend
	Logger   *logrus.Logger
}

func resolveHeuristic(cfg config.Config) (evalgraph.Heuristic, error) {
	switch cfg.Heuristic {
	case "", "easy":
		return evalgraph.Easy{}, nil
	case "trivial":
		return evalgraph.Trivial{}, nil
	case "old":
		return evalgraph.Old{}, nil
	case "fromfile":
		return evalgraph.FromFile{Assignment: cfg.FromFileAssignment}, nil
	default:
		return nil, herr.KindSyntax.New(fmt.Sprintf("unknown eval-graph heuristic %q", cfg.Heuristic))
	}
}

// New builds an Engine over reg's current rules, using cfg's heuristic to
// fold components into eval units. The backend cfg names is opened and
// kept in Engine.Backend; the builder's sessions do not use it, since
// every unit's session is a builder.NewSession. Should call nothing further to
// finalize — unlike the teacher's Engine, this one owns no background
// threads or process-wide state to release.
func New(reg *registry.Registry, rules []registry.ID, cfg config.Config) (*Engine, error) {
	g, err := depgraph.Build(reg, rules)
	if err != nil {
		return nil, err
	}
	comps := component.Build(g, rules)

	heuristic, err := resolveHeuristic(cfg)
	if err != nil {
		return nil, err
	}
	eg := heuristic.Build(g, comps)

	be, err := backend.Open(cfg.Backend, cfg.BackendConfig)
	if err != nil {
		return nil, err
	}

	// The internal backend's Session Clark-completes reg's entire ground
	// rule set regardless of which unit asks (ground.Ground takes a
	// *registry.Registry, not a rule subset; see mlp's DESIGN.md entry for
	// the same limitation). A unit-scoped grounder would need a
	// sub-registry or rule-subsetting mechanism this exercise does not
	// build, so every unit's session currently solves the whole program;
	// correct for a one-eval-unit (Trivial-on-a-single-component) graph,
	// an approximation otherwise.
	online := builder.New(reg, eg, func(unit evalgraph.Unit, input *registry.Interpretation) *builder.Session {
		return builder.NewSession(reg)
	})

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	return &Engine{
		Config:   cfg,
		Registry: reg,
		Eval:     eg,
		Online:   online,
		Offline:  builder.NewOffline(online, eg),
		Backend:  be,
		Logger:   logger,
	}, nil
}

// NewDefault builds an Engine with config.Default() tuning.
func NewDefault(reg *registry.Registry, rules []registry.ID) (*Engine, error) {
	return New(reg, rules, config.Default())
}

// AnswerSets materializes every answer set of the program reg/rules
// describe and returns each as its ground-atom interpretation, via the
// offline exhaustive builder.
func (e *Engine) AnswerSets() []*registry.Interpretation {
	models := e.Online.Models()
	var out []*registry.Interpretation
	for _, sink := range e.Offline.MaterializeAll() {
		for _, id := range sink {
			out = append(out, models.Get(id).Interp)
		}
	}
	return out
}
