package hotpaste

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "h1 heading",
			markdown: "# Quarterly Report\n\nbody text",
			want:     "Quarterly Report",
		},
		{
			name:     "heading below other content still wins",
			markdown: "intro paragraph\n\n## Findings",
			want:     "Findings",
		},
		{
			name:     "higher heading level beats earlier lower one",
			markdown: "## Sub\n\n# Main",
			want:     "Main",
		},
		{
			name:     "inline markup stripped from heading",
			markdown: "# The **Big** Idea",
			want:     "The Big Idea",
		},
		{
			name:     "paragraph fallback",
			markdown: "A short opening sentence.",
			want:     "A short opening sentence.",
		},
		{
			name:     "empty content",
			markdown: "",
			want:     "",
		},
		{
			name:     "whitespace only",
			markdown: "   \n\n  ",
			want:     "",
		},
		{
			name:     "long title truncated",
			markdown: "# " + strings.Repeat("a", 50),
			want:     strings.Repeat("a", 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.markdown); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.markdown, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain name", "plain name"},
		{`a/b\c:d`, "a_b_c_d"},
		{"what? <why> | when*", "what_ _why_ _ when"},
		{"___", ""},
		{"  spaced  ", "spaced"},
		{strings.Repeat("x", 40), strings.Repeat("x", 30)},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input, maxTitleChars); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTableFileName(t *testing.T) {
	tests := []struct {
		name string
		grid TableGrid
		want string
	}{
		{
			name: "header cells joined",
			grid: TableGrid{{"Name", "Age"}, {"Ada", "36"}},
			want: "Name_Age",
		},
		{
			name: "empty header cells skipped",
			grid: TableGrid{{"Name", "", "City"}, {"a", "b", "c"}},
			want: "Name_City",
		},
		{
			name: "nil grid",
			grid: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tableFileName(tt.grid); got != tt.want {
				t.Errorf("tableFileName(%v) = %q, want %q", tt.grid, got, tt.want)
			}
		})
	}
}

func TestGenerateOutputPath(t *testing.T) {
	t.Run("title-derived name", func(t *testing.T) {
		dir := t.TempDir()
		path, err := GenerateOutputPath(dir, "# My Notes\n\ntext", nil, "docx")
		if err != nil {
			t.Fatalf("GenerateOutputPath() error = %v", err)
		}
		if path != filepath.Join(dir, "My Notes.docx") {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("grid header beats markdown title", func(t *testing.T) {
		dir := t.TempDir()
		grid := TableGrid{{"Col1", "Col2"}, {"a", "b"}}
		path, err := GenerateOutputPath(dir, "# Ignored", grid, "csv")
		if err != nil {
			t.Fatalf("GenerateOutputPath() error = %v", err)
		}
		if filepath.Base(path) != "Col1_Col2.csv" {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("timestamp fallback", func(t *testing.T) {
		dir := t.TempDir()
		path, err := GenerateOutputPath(dir, "", nil, "docx")
		if err != nil {
			t.Fatalf("GenerateOutputPath() error = %v", err)
		}
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "paste_") || !strings.HasSuffix(base, ".docx") {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("never overwrites an existing file", func(t *testing.T) {
		dir := t.TempDir()
		existing := filepath.Join(dir, "Report.docx")
		if err := os.WriteFile(existing, []byte("old"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		path, err := GenerateOutputPath(dir, "# Report", nil, "docx")
		if err != nil {
			t.Fatalf("GenerateOutputPath() error = %v", err)
		}
		if path == existing {
			t.Errorf("path = %q collides with existing file", path)
		}
		if !strings.HasPrefix(filepath.Base(path), "Report_") {
			t.Errorf("path = %q, want timestamp suffix", path)
		}
	})

	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		if _, err := GenerateOutputPath(dir, "# X", nil, "docx"); err != nil {
			t.Fatalf("GenerateOutputPath() error = %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory not created: %v", err)
		}
	})
}
