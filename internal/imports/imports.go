package imports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoResolver is returned when a program uses import but nothing can load files.
var ErrNoResolver = errors.New("imports are not available for this source")

// Source is one loaded import.
type Source struct {
	Path string // cleaned path, also the include-once identity
	Text string
}

// Resolver loads the file named by an import statement.
// from is the path of the importing file ("" for stdin).
type Resolver interface {
	Resolve(from, path string) (Source, error)
}

// Dir resolves import paths relative to the directory of the importing file.
type Dir struct {
	ReadFile func(name string) ([]byte, error) // nil means os.ReadFile
}

func (d Dir) Resolve(from, path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return Source{}, errors.New("empty import path")
	}
	full := path
	if !filepath.IsAbs(path) {
		base := "."
		if from != "" {
			base = filepath.Dir(from)
		}
		full = filepath.Join(base, path)
	}
	full = filepath.Clean(full)

	read := d.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(full)
	if err != nil {
		return Source{}, fmt.Errorf("import %q: %w", path, err)
	}
	return Source{Path: full, Text: string(data)}, nil
}

// CycleError reports a chain of files that import each other.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "import cycle: " + strings.Join(e.Chain, " -> ")
}

// Set tracks which files one program has already pulled in.
// Each file is included once; a file importing one of its own importers is a cycle.
type Set struct {
	done   map[string]bool
	active []string
}

// NewSet starts tracking with root (the file being compiled, may be "").
func NewSet(root string) *Set {
	s := &Set{done: map[string]bool{}}
	if root != "" {
		root = filepath.Clean(root)
		s.done[root] = true
		s.active = append(s.active, root)
	}
	return s
}

// Enter marks path as being parsed. skip is true when the file was already included.
func (s *Set) Enter(path string) (skip bool, err error) {
	for i, p := range s.active {
		if p == path {
			chain := append(append([]string{}, s.active[i:]...), path)
			return false, &CycleError{Chain: chain}
		}
	}
	if s.done[path] {
		return true, nil
	}
	s.done[path] = true
	s.active = append(s.active, path)
	return false, nil
}

// Leave pops path after its parse finished.
func (s *Set) Leave(path string) {
	if n := len(s.active); n > 0 && s.active[n-1] == path {
		s.active = s.active[:n-1]
	}
}
