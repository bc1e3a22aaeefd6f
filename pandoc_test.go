package hotpaste

// Notes:
// - fakeRunner records the exact invocation so the argument contract with the
//   external converter is pinned without spawning subprocesses

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls  int
	stdin  []byte
	name   string
	args   []string
	stdout []byte
	stderr string
	err    error
}

func (r *fakeRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, string, error) {
	r.calls++
	r.stdin = stdin
	r.name = name
	r.args = args
	return r.stdout, r.stderr, r.err
}

func TestNewPandocConverter(t *testing.T) {
	if c := NewPandocConverter(""); c.Path != "pandoc" {
		t.Errorf("Path = %q, want %q", c.Path, "pandoc")
	}
	if c := NewPandocConverter("/opt/pandoc/bin/pandoc"); c.Path != "/opt/pandoc/bin/pandoc" {
		t.Errorf("Path = %q", c.Path)
	}
}

func TestPandocConvertMarkdown(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("PK\x03\x04docx")}
	c := &PandocConverter{Path: "pandoc", Runner: runner}

	out, err := c.ConvertMarkdown(context.Background(), "# Title\n\ntext", "")
	if err != nil {
		t.Fatalf("ConvertMarkdown() error = %v", err)
	}
	if string(out) != "PK\x03\x04docx" {
		t.Errorf("output = %q", out)
	}
	if string(runner.stdin) != "# Title\n\ntext" {
		t.Errorf("stdin = %q", runner.stdin)
	}
	if runner.name != "pandoc" {
		t.Errorf("name = %q", runner.name)
	}

	want := []string{
		"-f", pandocMarkdownFormat,
		"-t", "docx",
		"-o", "-",
		"--highlight-style", "tango",
	}
	if !reflect.DeepEqual(runner.args, want) {
		t.Errorf("args = %v, want %v", runner.args, want)
	}
}

func TestPandocConvertHTML(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("docx")}
	c := &PandocConverter{Path: "pandoc", Runner: runner}

	if _, err := c.ConvertHTML(context.Background(), "<p>hi</p>", ""); err != nil {
		t.Fatalf("ConvertHTML() error = %v", err)
	}
	if len(runner.args) < 2 || runner.args[1] != pandocHTMLFormat {
		t.Errorf("args = %v, want html input format", runner.args)
	}
	if string(runner.stdin) != "<p>hi</p>" {
		t.Errorf("stdin = %q", runner.stdin)
	}
}

func TestPandocReferenceDoc(t *testing.T) {
	runner := &fakeRunner{}
	c := &PandocConverter{Path: "pandoc", Runner: runner}

	if _, err := c.ConvertMarkdown(context.Background(), "x", "/styles/ref.docx"); err != nil {
		t.Fatalf("ConvertMarkdown() error = %v", err)
	}

	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "--reference-doc /styles/ref.docx") {
		t.Errorf("args = %v, want reference-doc flag", runner.args)
	}
}

func TestPandocConversionFailure(t *testing.T) {
	t.Run("stderr detail is surfaced", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 64"), stderr: "pandoc: unknown format\n"}
		c := &PandocConverter{Path: "pandoc", Runner: runner}

		_, err := c.ConvertMarkdown(context.Background(), "x", "")
		if !errors.Is(err, ErrConversionFailed) {
			t.Fatalf("error = %v, want ErrConversionFailed", err)
		}
		if !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("error = %v, want stderr detail", err)
		}
	})

	t.Run("runner error used when stderr is empty", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("signal: killed")}
		c := &PandocConverter{Path: "pandoc", Runner: runner}

		_, err := c.ConvertMarkdown(context.Background(), "x", "")
		if !errors.Is(err, ErrConversionFailed) {
			t.Fatalf("error = %v, want ErrConversionFailed", err)
		}
		if !strings.Contains(err.Error(), "signal: killed") {
			t.Errorf("error = %v, want runner detail", err)
		}
	})
}

func TestPandocCheck(t *testing.T) {
	t.Run("healthy install", func(t *testing.T) {
		runner := &fakeRunner{stdout: []byte("pandoc 3.1\n")}
		c := &PandocConverter{Path: "pandoc", Runner: runner}

		if err := c.Check(context.Background()); err != nil {
			t.Errorf("Check() error = %v", err)
		}
		if len(runner.args) != 1 || runner.args[0] != "--version" {
			t.Errorf("args = %v, want [--version]", runner.args)
		}
	})

	t.Run("executable missing", func(t *testing.T) {
		runner := &fakeRunner{err: fmt.Errorf("exec: %w", exec.ErrNotFound)}
		c := &PandocConverter{Path: "pandoc", Runner: runner}

		if err := c.Check(context.Background()); !errors.Is(err, ErrConverterNotFound) {
			t.Errorf("error = %v, want ErrConverterNotFound", err)
		}
	})

	t.Run("executable broken", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 2"), stderr: "missing libs"}
		c := &PandocConverter{Path: "pandoc", Runner: runner}

		err := c.Check(context.Background())
		if !errors.Is(err, ErrConverterNotFound) {
			t.Fatalf("error = %v, want ErrConverterNotFound", err)
		}
		if !strings.Contains(err.Error(), "missing libs") {
			t.Errorf("error = %v, want stderr detail", err)
		}
	})
}
