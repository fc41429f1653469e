package template

import (
	"fmt"
	"log/slog"

	"github.com/sourceplane/pipeshift/internal/model"
)

// PathNavigationError is returned when an intermediate path segment cannot
// be walked on the current tree shape.
type PathNavigationError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathNavigationError) Error() string {
	return fmt.Sprintf("cannot navigate %q at segment %q: %s", e.Path, e.Segment, e.Reason)
}

// PathAssignmentError is returned when the final path segment cannot be assigned
type PathAssignmentError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign %q at segment %q: %s", e.Path, e.Segment, e.Reason)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for per-operation debug output
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine applies update operations to template trees in order
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a new engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs every operation against tree in sequence and returns the
// mutated tree. The first failing operation aborts the rest.
func (e *Engine) Apply(tree map[string]interface{}, ops []model.UpdateOperation) (map[string]interface{}, error) {
	if tree == nil {
		tree = make(map[string]interface{})
	}
	for _, op := range ops {
		if err := Set(tree, op.Path, op.Value); err != nil {
			return nil, err
		}
		e.logger.Debug("applied template update", "path", op.Path)
	}
	return tree, nil
}

// Set assigns value at path inside root, creating intermediate mappings
func Set(root map[string]interface{}, path string, value interface{}) error {
	segments := ParsePath(path)
	var current interface{} = root

	for _, seg := range segments[:len(segments)-1] {
		next, err := descend(current, seg)
		if err != nil {
			return &PathNavigationError{Path: path, Segment: seg.Raw, Reason: err.Error()}
		}
		current = next
	}

	last := segments[len(segments)-1]
	if err := assign(current, last, value); err != nil {
		return &PathAssignmentError{Path: path, Segment: last.Raw, Reason: err.Error()}
	}
	return nil
}

func descend(node interface{}, seg Segment) (interface{}, error) {
	switch n := node.(type) {
	case []interface{}:
		if !seg.IsIndex {
			return nil, fmt.Errorf("non-numeric segment on a sequence")
		}
		if seg.Index >= len(n) {
			return nil, fmt.Errorf("index %d out of range (length %d)", seg.Index, len(n))
		}
		return n[seg.Index], nil
	case map[string]interface{}:
		child, ok := n[seg.Raw]
		if !ok || child == nil {
			child = make(map[string]interface{})
			n[seg.Raw] = child
		}
		return child, nil
	case map[interface{}]interface{}:
		child, ok := n[seg.Raw]
		if !ok || child == nil {
			child = make(map[string]interface{})
			n[seg.Raw] = child
		}
		return child, nil
	}
	return nil, fmt.Errorf("node of type %T is neither a mapping nor a sequence", node)
}

func assign(node interface{}, seg Segment, value interface{}) error {
	switch n := node.(type) {
	case []interface{}:
		if !seg.IsIndex {
			return fmt.Errorf("non-numeric segment on a sequence")
		}
		if seg.Index >= len(n) {
			return fmt.Errorf("index %d out of range (length %d)", seg.Index, len(n))
		}
		n[seg.Index] = value
		return nil
	case map[string]interface{}:
		n[seg.Raw] = value
		return nil
	case map[interface{}]interface{}:
		n[seg.Raw] = value
		return nil
	}
	return fmt.Errorf("node of type %T is neither a mapping nor a sequence", node)
}
