package imports

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func mapReader(files map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if src, ok := files[filepath.ToSlash(name)]; ok {
			return []byte(src), nil
		}
		return nil, fs.ErrNotExist
	}
}

func TestDirResolveRelativeToImporter(t *testing.T) {
	d := Dir{ReadFile: mapReader(map[string]string{
		"app/lib/math.aur": "func sq(x) { return x * x; }",
	})}

	src, err := d.Resolve(filepath.FromSlash("app/main.aur"), "lib/math.aur")
	be.Err(t, err, nil)
	be.Equal(t, filepath.ToSlash(src.Path), "app/lib/math.aur")
	be.Equal(t, src.Text, "func sq(x) { return x * x; }")
}

func TestDirResolveMissingFile(t *testing.T) {
	d := Dir{ReadFile: mapReader(nil)}
	_, err := d.Resolve("main.aur", "nope.aur")
	be.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = d.Resolve("main.aur", "  ")
	be.True(t, err != nil)
}

func TestSetIncludeOnceAndCycles(t *testing.T) {
	s := NewSet("main.aur")

	skip, err := s.Enter("a.aur")
	be.Err(t, err, nil)
	be.Equal(t, skip, false)

	_, err = s.Enter("main.aur")
	var cycle *CycleError
	be.True(t, errors.As(err, &cycle))
	be.Equal(t, cycle.Chain, []string{"main.aur", "a.aur", "main.aur"})

	s.Leave("a.aur")
	skip, err = s.Enter("a.aur")
	be.Err(t, err, nil)
	be.Equal(t, skip, true)
}
