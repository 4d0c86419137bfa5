// Package toolchain turns generated IR into a native executable by
// driving clang.
package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	EnvClang  = "AURA_CLANG"
	EnvTarget = "AURA_TARGET"
)

// ErrOpaquePointersOnly is returned for clang releases that can no longer
// read typed-pointer IR.
var ErrOpaquePointersOnly = errors.New("clang 17 and later only accept opaque pointers")

// execCommand is swapped out by tests.
var execCommand = exec.Command

var versionPattern = regexp.MustCompile(`clang version ([0-9]+(?:\.[0-9]+){0,2})`)

// Config selects the clang binary and target. The zero value uses
// "clang" from PATH and the host target.
type Config struct {
	Clang     string
	Target    string
	ExtraArgs []string
}

// FromEnv reads AURA_CLANG and AURA_TARGET.
func FromEnv() Config {
	return Config{
		Clang:  os.Getenv(EnvClang),
		Target: os.Getenv(EnvTarget),
	}
}

func (c Config) clang() string {
	if c.Clang == "" {
		return "clang"
	}
	return c.Clang
}

// Error is a failed tool run with whatever the tool printed.
type Error struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ParseVersion extracts the clang release from `clang --version` output.
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no clang version in %q", firstLine(output))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("clang version %q: %w", m[1], err)
	}
	return v, nil
}

// PointerFlags returns the flags that make clang accept typed-pointer IR.
func PointerFlags(v *semver.Version) ([]string, error) {
	modern, err := semver.NewConstraint(">= 17")
	if err != nil {
		return nil, err
	}
	if modern.Check(v) {
		return nil, fmt.Errorf("clang %s: %w", v, ErrOpaquePointersOnly)
	}
	transitional, err := semver.NewConstraint(">= 15, < 17")
	if err != nil {
		return nil, err
	}
	if transitional.Check(v) {
		return []string{"-Xclang", "-no-opaque-pointers"}, nil
	}
	return nil, nil
}

// Version runs `clang --version`.
func (c Config) Version() (*semver.Version, error) {
	cmd := execCommand(c.clang(), "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &Error{Tool: c.clang(), Args: []string{"--version"}, Output: string(out), Err: err}
	}
	return ParseVersion(string(out))
}

// Args builds the clang command line for compiling irPath to outPath.
func (c Config) Args(v *semver.Version, irPath, outPath string) ([]string, error) {
	args, err := PointerFlags(v)
	if err != nil {
		return nil, err
	}
	if c.Target != "" {
		args = append(args, "-target", c.Target)
	}
	args = append(args, "-Wno-override-module", irPath, "-o", outPath)
	if c.targetsMSVC() {
		// printf lives in an import library on the MSVC runtime.
		args = append(args, "-llegacy_stdio_definitions")
	}
	return append(args, c.ExtraArgs...), nil
}

func (c Config) targetsMSVC() bool {
	if c.Target != "" {
		return strings.Contains(c.Target, "msvc")
	}
	return runtime.GOOS == "windows"
}

// Build compiles the IR file at irPath into an executable at outPath.
func (c Config) Build(irPath, outPath string) error {
	v, err := c.Version()
	if err != nil {
		return err
	}
	args, err := c.Args(v, irPath, outPath)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	cmd := execCommand(c.clang(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &Error{Tool: c.clang(), Args: args, Output: string(out), Err: err}
	}
	return nil
}

// CompileIR writes ir to a scratch file and builds it into outPath.
func (c Config) CompileIR(ir, outPath string) error {
	tmpDir, err := os.MkdirTemp("", "aura-compile-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	irPath := filepath.Join(tmpDir, "program.ll")
	if err := os.WriteFile(irPath, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("failed to write IR: %w", err)
	}
	return c.Build(irPath, outPath)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
