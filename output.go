package hotpaste

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
)

// maxTitleChars bounds content-derived file names.
const maxTitleChars = 30

// invalidFilenameChars are characters not allowed in file names on any
// supported platform.
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var underscoreRuns = regexp.MustCompile(`_+`)

// titleParser parses Markdown for title extraction. GFM so tables and
// strikethrough are recognized and skipped as candidates.
var titleParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// ExtractTitle derives a document title from Markdown content: the
// highest-level heading wins (H1 before H2, first among equals), falling
// back to the text of the first top-level paragraph. Returns "" when the
// content offers nothing usable.
func ExtractTitle(markdown string) string {
	src := []byte(markdown)
	doc := titleParser.Parse(gmtext.NewReader(src))

	var best *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if best == nil || h.Level < best.Level {
				best = h
			}
		}
		return ast.WalkContinue, nil
	})
	if best != nil {
		if title := SanitizeFilename(nodeText(best, src), maxTitleChars); title != "" {
			return title
		}
	}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.Paragraph); !ok {
			continue
		}
		if title := SanitizeFilename(nodeText(c, src), maxTitleChars); title != "" {
			return title
		}
	}
	return ""
}

// nodeText collects the plain text of a node subtree, inline markup removed.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// tableFileName builds a file name from a grid's header cells, up to six,
// joined with underscores.
func tableFileName(grid TableGrid) string {
	if len(grid) == 0 {
		return ""
	}
	header := grid[0]
	if len(header) > 6 {
		header = header[:6]
	}
	var cells []string
	for _, c := range header {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return SanitizeFilename(strings.Join(cells, "_"), maxTitleChars)
}

// SanitizeFilename strips characters file systems reject, collapses
// underscore runs, and truncates to maxLen. Returns "" when nothing
// survives.
func SanitizeFilename(name string, maxLen int) string {
	cleaned := invalidFilenameChars.ReplaceAllString(name, "_")
	cleaned = underscoreRuns.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "_")
	if len(cleaned) > maxLen {
		cleaned = strings.TrimRight(cleaned[:maxLen], "_")
	}
	return cleaned
}

// GenerateOutputPath picks a destination path inside dir for a generated
// artifact, preferring a content-derived name: the table header for grids,
// the document title for Markdown, a timestamp otherwise. An existing file
// is never overwritten; a timestamp suffix is appended instead.
func GenerateOutputPath(dir, markdown string, grid TableGrid, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	var base string
	if grid != nil {
		base = tableFileName(grid)
	}
	if base == "" && markdown != "" {
		base = ExtractTitle(markdown)
	}
	if base == "" {
		base = "paste_" + time.Now().Format("20060102_150405")
	}

	return uniquePath(filepath.Join(dir, base+"."+ext)), nil
}

// uniquePath appends a timestamp before the extension when path exists.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "_" + time.Now().Format("20060102_150405") + ext
}
