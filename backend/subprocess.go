package backend

import (
	"bufio"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/hexhex/core/herr"
	"github.com/hexhex/core/registry"
)

// Subprocess is an ASP backend implemented as an external process
// communicating over its standard pipes (spec.md §5 "an ASP backend
// invocation opens full-duplex pipes to a child process; the writer side
// is closed to signal end-of-input; the reader side is read to EOF").
// Facts are written one per line in the canonical textual form of
// spec.md §6; the child is expected to reply the same way, one answer
// set per line, atoms separated by spaces.
type Subprocess struct {
	Path string
	Args []string
}

func (b Subprocess) Solve(reg *registry.Registry) (ModelStream, error) {
	cmd := exec.Command(b.Path, b.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, herr.KindBackend.New("opening backend stdin: " + err.Error())
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, herr.KindBackend.New("opening backend stdout: " + err.Error())
	}
	if err := cmd.Start(); err != nil {
		return nil, herr.KindBackend.New("starting backend process: " + err.Error())
	}

	byText := make(map[string]registry.ID)
	for _, atom := range reg.AllGroundAtoms() {
		row, err := reg.OrdinaryAtom(atom)
		if err != nil {
			continue
		}
		byText[row.Text] = atom
	}

	var facts []string
	for i := 0; i < reg.RuleCount(); i++ {
		rule, err := reg.Rule(reg.RuleIDAt(registry.Address(i)))
		if err != nil || len(rule.Head) != 1 || len(rule.Body) != 0 {
			continue
		}
		if row, err := reg.OrdinaryAtom(rule.Head[0]); err == nil {
			facts = append(facts, row.Text)
		}
	}

	go func() {
		defer stdin.Close()
		w := bufio.NewWriter(stdin)
		for _, text := range facts {
			w.WriteString(text)
			w.WriteByte('\n')
		}
		w.Flush()
	}()

	return &subprocessStream{
		reg:     reg,
		cmd:     cmd,
		scanner: bufio.NewScanner(stdout),
		byText:  byText,
	}, nil
}

type subprocessStream struct {
	reg     *registry.Registry
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	byText  map[string]registry.ID

	mu     sync.Mutex
	waited bool
}

// Next reads the next answer-set line. A broken pipe or other read
// failure from the child does not crash the host process (spec.md §5 "a
// broken-pipe signal from the child must not terminate the host; it is
// mapped to an I/O error on the next read"); it surfaces as a KindBackend
// error from this call instead.
func (s *subprocessStream) Next() (*registry.Interpretation, bool, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil && err != io.EOF {
			return nil, false, herr.KindBackend.New("reading backend output: " + err.Error())
		}
		s.mu.Lock()
		if !s.waited {
			s.waited = true
			s.cmd.Wait()
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	line := strings.TrimSpace(s.scanner.Text())
	model := registry.NewInterpretation(s.reg)
	if line == "" {
		return model, true, nil
	}
	for _, tok := range strings.Fields(line) {
		id, ok := s.byText[tok]
		if !ok {
			return nil, false, herr.KindBackend.New("backend answer set referenced unknown atom: " + tok)
		}
		model.SetAtom(id)
	}
	return model, true, nil
}
