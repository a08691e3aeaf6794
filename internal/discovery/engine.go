// Package discovery ties the tree search, the property source and the
// matcher together into one discovery session.
package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/starford/modemfind/internal/apperr"
	"github.com/starford/modemfind/internal/models"
	"github.com/starford/modemfind/internal/property"
	"github.com/starford/modemfind/internal/sysfs"
	"github.com/starford/modemfind/internal/udev"
)

// Searcher is the discovery contract.
type Searcher interface {
	Find(root string, filters []string, depth int) []string
	Value(block, key string) (string, bool)
	Match(blocks []string, target string, criteria []property.Criterion) []string
	Search(ctx context.Context) int
}

// Verify *Engine satisfies Searcher at compile time.
var _ Searcher = (*Engine)(nil)

// FindFunc performs the tree search.
type FindFunc func(root string, filters []string, depth int) []string

type record struct {
	path  string
	props string
}

// Engine is a single discovery session. The first Search populates it;
// afterwards it only answers queries. Create a new Engine to rescan.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	spec   sysfs.SearchSpec
	source udev.Source
	find   FindFunc
	logger *slog.Logger

	searched bool
	records  []record
	skipped  error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report skipped candidates.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithFinder replaces the tree search.
func WithFinder(f FindFunc) Option {
	return func(e *Engine) {
		e.find = f
	}
}

// New returns an empty session that searches spec and queries source.
func New(spec sysfs.SearchSpec, source udev.Source, opts ...Option) *Engine {
	e := &Engine{
		spec:   spec,
		source: source,
		find:   sysfs.Find,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Find runs the tree search.
func (e *Engine) Find(root string, filters []string, depth int) []string {
	return e.find(root, filters, depth)
}

// Value extracts key from a property block.
func (e *Engine) Value(block, key string) (string, bool) {
	return property.Value(block, key)
}

// Match collects target from the blocks satisfying criteria.
func (e *Engine) Match(blocks []string, target string, criteria []property.Criterion) []string {
	return property.Match(blocks, target, criteria)
}

// Search finds candidate devices and stores the properties of every
// candidate the source answers for. It runs once per Engine; later calls
// return the stored count. Candidates the source fails on are skipped and
// reported by Skipped.
func (e *Engine) Search(ctx context.Context) int {
	if e.searched {
		return len(e.records)
	}
	e.searched = true

	paths := e.Find(e.spec.Root, e.spec.Filters, e.spec.Depth)
	e.logger.Debug("discovery: candidates found",
		slog.String("root", e.spec.Root),
		slog.Int("count", len(paths)))

	for _, p := range paths {
		res, err := e.source.Query(ctx, p)
		switch {
		case err != nil:
			err = fmt.Errorf("%w: %w", apperr.ErrNoProperties, err)
		case !res.Usable():
			err = describe(res)
		}
		if err != nil {
			e.skipped = multierr.Append(e.skipped, fmt.Errorf("%s: %w", p, err))
			e.logger.Warn("discovery: skip candidate",
				slog.String("path", p),
				slog.String("error", err.Error()))
			continue
		}
		e.records = append(e.records, record{path: p, props: *res.Stdout})
	}

	e.logger.Debug("discovery: search done",
		slog.Int("stored", len(e.records)),
		slog.Int("skipped", len(multierr.Errors(e.skipped))))
	return len(e.records)
}

func describe(res udev.Result) error {
	switch {
	case res.ExitStatus == nil:
		return fmt.Errorf("%w: query terminated abnormally", apperr.ErrNoProperties)
	case *res.ExitStatus != 0:
		return fmt.Errorf("%w: exit status %d", apperr.ErrNoProperties, *res.ExitStatus)
	default:
		return fmt.Errorf("%w: empty output", apperr.ErrNoProperties)
	}
}

// Searched reports whether Search has run.
func (e *Engine) Searched() bool {
	return e.searched
}

// Blocks returns the stored property blocks in search order.
func (e *Engine) Blocks() []string {
	out := make([]string, len(e.records))
	for i, r := range e.records {
		out[i] = r.props
	}
	return out
}

// Paths returns the candidate paths whose properties were stored.
func (e *Engine) Paths() []string {
	out := make([]string, len(e.records))
	for i, r := range e.records {
		out[i] = r.path
	}
	return out
}

// Skipped returns the combined reasons candidates were skipped, or nil.
func (e *Engine) Skipped() error {
	return e.skipped
}

// Property returns the values of key in the stored blocks that satisfy
// criteria. ok is false before Search or when nothing matches.
func (e *Engine) Property(key string, criteria []property.Criterion) ([]string, bool) {
	if len(e.records) == 0 {
		return nil, false
	}
	values := e.Match(e.Blocks(), key, criteria)
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}

// Locate searches for interfaces of m and returns their port range.
// It returns apperr.ErrDeviceNotFound when no interface matches, and
// apperr.ErrQueryFailed when candidates exist but none could be queried.
func (e *Engine) Locate(ctx context.Context, m models.Model) (models.Discovery, error) {
	if e.Search(ctx) == 0 && e.skipped != nil {
		return models.Discovery{}, fmt.Errorf("discovery: %w: %w", apperr.ErrQueryFailed, e.skipped)
	}

	criteria := property.ModelCriteria(m)
	values, ok := e.Property(property.KeyInterfaceNum, criteria)
	if !ok {
		return models.Discovery{}, fmt.Errorf("discovery: %s (%s:%s): %w",
			m.Name, m.VendorID, m.ModelID, apperr.ErrDeviceNotFound)
	}
	ports, ok := property.Aggregate(values, property.BaseFor(property.KeyInterfaceNum))
	if !ok {
		return models.Discovery{}, fmt.Errorf("discovery: %s: no numeric interface numbers: %w",
			m.Name, apperr.ErrDeviceNotFound)
	}
	nodes, _ := e.Property(property.KeyDevName, criteria)

	e.logger.Info("discovery: device located",
		slog.String("model", m.Name),
		slog.Int("start", ports.Start),
		slog.Int("count", ports.Count))

	return models.Discovery{Model: m, Ports: ports, Nodes: nodes}, nil
}
