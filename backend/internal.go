package backend

import (
	"github.com/hexhex/core/builder"
	"github.com/hexhex/core/registry"
)

// Internal is the built-in backend: it Clark-completes reg and drives a
// builder.Session directly, with no subprocess or serialization
// involved. This is the backend every unit test and the default engine
// configuration use.
type Internal struct{}

func (Internal) Solve(reg *registry.Registry) (ModelStream, error) {
	return &internalStream{sess: builder.NewSession(reg)}, nil
}

type internalStream struct {
	sess *builder.Session
}

func (s *internalStream) Next() (*registry.Interpretation, bool, error) {
	model, ok := s.sess.Next()
	return model, ok, nil
}
