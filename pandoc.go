package hotpaste

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Pandoc reader extensions: TeX math in all the delimiter styles assistants
// emit, plus raw TeX passthrough.
const (
	pandocMarkdownFormat = "markdown+tex_math_dollars+raw_tex+tex_math_double_backslash+tex_math_single_backslash"
	pandocHTMLFormat     = "html+tex_math_dollars+raw_tex+tex_math_double_backslash+tex_math_single_backslash"
)

// Converter turns Markdown or HTML into a complete binary document buffer.
// Input is piped in-memory; no disk I/O is required on the input side.
type Converter interface {
	ConvertMarkdown(ctx context.Context, markdown, referenceDoc string) ([]byte, error)
	ConvertHTML(ctx context.Context, htmlText, referenceDoc string) ([]byte, error)
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout []byte, stderr string, err error)
}

// execRunner implements CommandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.String(), err
}

// PandocConverter converts Markdown and HTML to DOCX by invoking pandoc,
// feeding the input on stdin and reading the binary document from stdout.
type PandocConverter struct {
	Path   string
	Runner CommandRunner
}

// NewPandocConverter creates a PandocConverter with a real command runner.
// Path may be a bare name resolved on PATH or an absolute path.
func NewPandocConverter(path string) *PandocConverter {
	if path == "" {
		path = "pandoc"
	}
	return &PandocConverter{Path: path, Runner: execRunner{}}
}

// Check probes the pandoc executable with --version.
func (c *PandocConverter) Check(ctx context.Context) error {
	_, stderr, err := c.Runner.Run(ctx, nil, c.Path, "--version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrConverterNotFound, c.Path)
		}
		return fmt.Errorf("%w: %s: %s", ErrConverterNotFound, c.Path, strings.TrimSpace(stderr))
	}
	return nil
}

// ConvertMarkdown converts Markdown text to a DOCX buffer.
func (c *PandocConverter) ConvertMarkdown(ctx context.Context, markdown, referenceDoc string) ([]byte, error) {
	return c.convert(ctx, []byte(markdown), pandocMarkdownFormat, referenceDoc)
}

// ConvertHTML converts an HTML document to a DOCX buffer.
func (c *PandocConverter) ConvertHTML(ctx context.Context, htmlText, referenceDoc string) ([]byte, error) {
	return c.convert(ctx, []byte(htmlText), pandocHTMLFormat, referenceDoc)
}

func (c *PandocConverter) convert(ctx context.Context, input []byte, fromFormat, referenceDoc string) ([]byte, error) {
	args := []string{
		"-f", fromFormat,
		"-t", "docx",
		"-o", "-",
		"--highlight-style", "tango",
	}
	if referenceDoc != "" {
		args = append(args, "--reference-doc", referenceDoc)
	}

	stdout, stderr, err := c.Runner.Run(ctx, input, c.Path, args...)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrConversionFailed, detail)
	}
	return stdout, nil
}
