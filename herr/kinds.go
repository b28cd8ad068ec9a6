// Package herr defines the error taxonomy of the evaluation core (spec §7).
//
// There are exactly four kinds. Conflicts raised during CDNL search are not
// among them: those are the ordinary mechanism of search and never leave
// the solver as an `error` value.
package herr

import (
	"fmt"

	errors "gopkg.in/src-d/go-errors.v1"
)

// KindSyntax covers ill-formed input referenced during registry
// construction: unknown predicate arity, malformed rule, duplicate module
// name. Fatal, no recovery.
var KindSyntax = errors.NewKind("syntax error: %s")

// KindSafety covers strong-safety / input-safety violations, unprepared
// module calls, and references to unknown module atoms. Fatal, surfaced
// with the offending rule or atom handle.
var KindSafety = errors.NewKind("safety violation: %s")

// KindBackend covers ASP backend and oracle I/O failures: broken pipes,
// dead subprocesses, oracle panics. backend.Subprocess returns it when its
// child process cannot be started or its output cannot be read or parsed;
// no builder code inspects it to retry or backtrack.
var KindBackend = errors.NewKind("backend failure: %s")

// KindInternal covers invariant violations that indicate a bug in this
// program rather than in the input or in a collaborator: a join-order
// mismatch when adding an eval-unit dependency, a model-graph type
// mismatch, a registry handle of the wrong kind. Assert panics with
// this kind when debug assertions are enabled; release builds instead
// return it as an ordinary error.
var KindInternal = errors.NewKind("internal invariant violation: %s")

// DebugAssertions gates whether Assert panics (debug builds, catching
// programmer error as early as possible) or returns an error (release
// builds, degrading as gracefully as an internal bug allows).
var DebugAssertions = false

// Assert reports a KindInternal violation if cond is false. In debug
// builds it panics so the violation is caught at its source; otherwise it
// returns the error for the caller to propagate.
func Assert(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	err := KindInternal.New(fmt.Sprintf(format, args...))
	if DebugAssertions {
		panic(err)
	}
	return err
}
