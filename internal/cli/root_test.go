package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/render"
)

// execute runs the root command in an isolated config and cache home.
func execute(t *testing.T, args ...string) (*CLI, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return c, out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}
	for _, name := range []string{"build", "postfix", "inspect", "tree", "explore", "serve", "cache", "completion"} {
		if !got[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestPostfixCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"quoted", []string{"~(a&b)|c"}, "a b & ~ c |"},
		{"split by shell", []string{"a", "&", "b"}, "a b &"},
		{"precedence", []string{"a|b&c"}, "a b c & |"},
		{"check", []string{"--check", "x1 | ~y"}, "valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := execute(t, append([]string{"postfix"}, tt.args...)...)
			if err != nil {
				t.Fatalf("postfix: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("postfix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostfixCommand_Invalid(t *testing.T) {
	_, _, err := execute(t, "postfix", "a & (b | c")
	if err == nil {
		t.Fatal("expected error for unbalanced expression")
	}
	if !gserrors.Is(err, gserrors.ErrCodeInvalidExpression) {
		t.Errorf("code = %q, want %q", gserrors.GetCode(err), gserrors.ErrCodeInvalidExpression)
	}
	if !strings.Contains(err.Error(), "unbalanced '(' at position 5") {
		t.Errorf("error %q lacks parser detail", err)
	}
	if strings.Contains(err.Error(), string(gserrors.ErrCodeInvalidExpression)) {
		t.Errorf("error %q should not expose the code", err)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "build", "-o", dir, "-f", "png,svg,json,dot", "~(a&b)|c")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "circuit.json"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := render.ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Gates) != 3 {
		t.Errorf("gates = %d, want 3", len(c.Gates))
	}

	f, err := os.Open(filepath.Join(dir, "circuit.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != c.Width || b.Dy() != c.Height {
		t.Errorf("png = %dx%d, want %dx%d", b.Dx(), b.Dy(), c.Width, c.Height)
	}

	for _, name := range []string{"circuit.svg", "circuit.dot"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestBuildCommand_Store(t *testing.T) {
	storeDir := t.TempDir()
	cfg := writeConfig(t, `
[storage]
backend = "file"
dir = "`+filepath.ToSlash(storeDir)+`"

[cache]
backend = "none"
`)
	outDir := t.TempDir()

	_, _, err := execute(t, "--config", cfg, "build", "--store", "-o", outDir, "-f", "svg", "a|b")
	if err != nil {
		t.Fatalf("build --store: %v", err)
	}

	stored, _ := filepath.Glob(filepath.Join(storeDir, "*.svg"))
	if len(stored) != 1 {
		t.Errorf("stored svg files = %v, want exactly one", stored)
	}
	written, _ := os.ReadDir(outDir)
	if len(written) != 0 {
		t.Errorf("--store should not write to the output dir, found %d files", len(written))
	}
}

func TestBuildCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code gserrors.Code
	}{
		{"invalid expression", []string{"a b"}, gserrors.ErrCodeInvalidExpression},
		{"invalid format", []string{"-f", "gif", "a"}, gserrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"build", "-o", dir}, tt.args...)
			_, _, err := execute(t, args...)
			if !gserrors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if files, _ := os.ReadDir(dir); len(files) != 0 {
				t.Errorf("failed build wrote %d files", len(files))
			}
		})
	}
}

func TestInspectCommand(t *testing.T) {
	_, out, err := execute(t, "inspect", "--connections", "~(a&b)|c")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"a b & ~ c |", "T0", "T2", "AND", "NOT", "OR", "From", "Path"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output lacks %q:\n%s", want, out)
		}
	}
}

func TestTreeCommand_DOT(t *testing.T) {
	_, out, err := execute(t, "tree", "--dot", "--detailed", "a&b")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, `"T0" -> "v0"`) {
		t.Errorf("missing gate edge:\n%s", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	_, out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestConfig(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "postfix", "a")
		if !gserrors.Is(err, gserrors.ErrCodeInvalidConfig) {
			t.Errorf("err = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("log level", func(t *testing.T) {
		cfg := writeConfig(t, "[log]\nlevel = \"debug\"\n")
		c, _, err := execute(t, "--config", cfg, "postfix", "a")
		if err != nil {
			t.Fatal(err)
		}
		if lvl := c.Logger.GetLevel(); lvl != log.DebugLevel {
			t.Errorf("level = %v, want debug", lvl)
		}
	})
}
