package annotation

import (
	"errors"
	"fmt"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/syntax"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// Scanner finds Route-annotated pages in ArkTS sources.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	logger     arkroute.Logger
	dispatcher *syntax.Dispatcher[Candidate]
}

var _ arkroute.SourceScanner = (*Scanner)(nil)

// NewScanner creates a scanner reading from the OS filesystem.
func NewScanner(logger arkroute.Logger) *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem(), logger)
}

// NewScannerWithFS creates a scanner over the given filesystem. A nil logger discards output.
func NewScannerWithFS(fs filesystem.FileSystemProvider, logger arkroute.Logger) *Scanner {
	if fs == nil {
		panic("filesystem provider cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	s := &Scanner{fsProvider: fs, logger: logger}
	s.dispatcher = syntax.NewDispatcher[Candidate]().
		On(syntax.KindMissingDeclaration, s.onDeclaration).
		On(syntax.KindExportAssignment, s.onDeclaration).
		On(syntax.KindExpressionStatement, s.onExpression)
	return s
}

// ScanFile reads and scans one source file. Read and tokenizer failures are
// returned; problems with individual nodes are logged and skipped.
func (s *Scanner) ScanFile(path string) ([]arkroute.PageMatch, error) {
	src, err := s.fsProvider.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.ScanSource(path, string(src))
}

// ScanSource scans source text attributed to path.
func (s *Scanner) ScanSource(path, src string) ([]arkroute.PageMatch, error) {
	root, err := syntax.Parse(path, src)
	if err != nil {
		return nil, err
	}

	var (
		candidate Candidate
		matches   []arkroute.PageMatch
		emitted   = make(map[string]bool)
	)
	for _, node := range root.Children {
		next, err := s.dispatcher.Dispatch(node, candidate)
		if err != nil {
			s.logger.Error("%s:%s: %v", path, node.Pos, err)
		}

		var (
			match arkroute.PageMatch
			ok    bool
		)
		candidate, match, ok = next.Settle(emitted)
		if ok {
			emitted[match.PageIdentifier] = true
			matches = append(matches, match)
			s.logger.Verbose("%s: route %q -> %s", path, match.RouteName, match.PageIdentifier)
		}
	}

	if st := candidate.State(); st != StateIdle {
		s.logger.Verbose("%s: discarding %s candidate at end of file", path, st)
	}
	return matches, nil
}

// onDeclaration applies every modifier of a node carrying at least two of them.
func (s *Scanner) onDeclaration(n *syntax.Node, c Candidate) (Candidate, error) {
	if len(n.Modifiers) < arkroute.MinAnnotations {
		return c, nil
	}

	var errs []error
	for _, m := range n.Modifiers {
		var err error
		if c, err = applyModifier(m, c); err != nil {
			errs = append(errs, err)
		}
	}
	return c, errors.Join(errs...)
}

// applyModifier opens a new candidate for a @Route({...}) decorator. A panic
// leaves the candidate unchanged.
func applyModifier(m *syntax.Node, c Candidate) (next Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = c, fmt.Errorf("modifier at %s: %v", m.Pos, r)
		}
	}()

	obj, ok := routeArgument(m)
	if !ok {
		return c, nil
	}
	name, description, err := routeFields(obj)
	return c.OnRoute(name, description), err
}

func (s *Scanner) onExpression(n *syntax.Node, c Candidate) (Candidate, error) {
	if expr := n.Expression(); expr.Is(syntax.KindIdentifier) {
		return c.OnIdentifier(expr.Text), nil
	}
	return c, nil
}
