// Package sysfs locates device directories in a sysfs-like tree.
package sysfs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// DefaultDepth bounds the search when no depth is configured. It is deep
// enough to reach tty nodes below /sys/bus/usb/devices.
const DefaultDepth = 7

// Directory names that link back into the tree or to unrelated nodes.
var excluded = map[string]struct{}{
	"subsystem":     {},
	"driver":        {},
	"firmware_node": {},
	"port":          {},
}

// SearchSpec describes one search.
//
// Filters[0] is the marker filename whose parent directory is a candidate.
// Each later filter must appear as a substring of a candidate path for the
// candidate to be kept.
type SearchSpec struct {
	Root    string
	Filters []string
	Depth   int
}

// Find runs the search described by s.
func (s SearchSpec) Find() []string {
	return Find(s.Root, s.Filters, s.Depth)
}

type frame struct {
	dir      string
	resolved string
	budget   int
	entries  []os.DirEntry
	next     int
}

// walker holds the state shared by one search. Directories are keyed by
// their resolved path, so a device reachable through several symlinks is
// walked and recorded once.
type walker struct {
	target   string
	budgets  map[string]int      // largest budget each directory was entered with
	recorded map[string]struct{} // resolved parents already reported
	out      []string
}

// Find searches root depth-first for files named filters[0] and returns
// their parent directories, narrowed by filters[1:].
//
// Each descent consumes one unit of depth; with depth 0 only the entries of
// root itself are examined. Excluded names are never entered. A directory
// reached again through another link is entered only with a larger budget
// than before, and each physical directory is reported once. Unreadable
// directories are skipped. An empty filter chain returns root unchanged; a
// missing root returns nothing.
func Find(root string, filters []string, depth int) []string {
	if len(filters) == 0 {
		return []string{root}
	}
	out := walk(filepath.Clean(root), filters[0], max(depth, 0))
	for _, f := range filters[1:] {
		out = lo.Filter(out, func(p string, _ int) bool {
			return strings.Contains(p, f)
		})
	}
	return out
}

func walk(root, target string, depth int) []string {
	w := &walker{
		target:   target,
		budgets:  map[string]int{},
		recorded: map[string]struct{}{},
		out:      []string{},
	}
	rootFrame, err := w.enter(root, depth)
	if err != nil || rootFrame == nil {
		return w.out
	}

	stack := []*frame{rootFrame}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		name := entry.Name()
		path := filepath.Join(top.dir, name)

		if top.budget > 0 && !isExcluded(name) && isDir(path, entry) {
			child, err := w.enter(path, top.budget-1)
			if err != nil {
				slog.Debug("sysfs: skip directory", slog.String("path", path), slog.String("error", err.Error()))
			}
			if child != nil {
				stack = append(stack, child)
				continue
			}
		}
		if name == target {
			w.record(top)
		}
	}
	return w.out
}

// enter prepares the frame for directory path. It returns nil, nil when
// path resolves to a directory already walked with at least budget.
func (w *walker) enter(path string, budget int) (*frame, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}
	if seen, ok := w.budgets[resolved]; ok && seen >= budget {
		return nil, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	w.budgets[resolved] = budget
	return &frame{
		dir:      path,
		resolved: resolved,
		budget:   budget,
		entries:  entries,
	}, nil
}

func (w *walker) record(f *frame) {
	if _, dup := w.recorded[f.resolved]; dup {
		return
	}
	w.recorded[f.resolved] = struct{}{}
	w.out = append(w.out, f.dir)
}

func isExcluded(name string) bool {
	_, ok := excluded[name]
	return ok
}

// isDir follows symlinks, as sysfs exposes most device links that way.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
