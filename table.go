package hotpaste

import (
	"regexp"
	"strings"
)

// delimiterRowPattern matches a pipe-table delimiter row such as
// |---|:---:| with optional alignment colons and outer pipes.
var delimiterRowPattern = regexp.MustCompile(`^\s*\|?\s*[-:]+\s*(\|\s*[-:]+\s*)+\|?\s*$`)

// ParseTable detects a single well-formed Markdown pipe table in the text,
// either the whole text or a contiguous top-level block inside it, and
// returns it as a grid. The delimiter row is consumed for validation only.
// Returns false when no table resolves: fewer than one header and one data
// row, a missing delimiter row, or rows with mismatched cell counts.
//
// ParseTable doubles as the boolean "is this a table" probe used by routing.
func ParseTable(markdown string) (TableGrid, bool) {
	text := crlfOrCR.ReplaceAllString(strings.TrimSpace(markdown), "\n")
	lines := strings.Split(text, "\n")

	// Scan for contiguous runs of pipe-bearing lines; the first run that
	// parses as a strict table wins.
	for i := 0; i < len(lines); i++ {
		if !strings.Contains(lines[i], "|") {
			continue
		}
		j := i
		for j < len(lines) && strings.Contains(lines[j], "|") {
			j++
		}
		if grid, ok := parseTableBlock(lines[i:j]); ok {
			return grid, true
		}
		i = j
	}
	return nil, false
}

// parseTableBlock parses one contiguous run of candidate rows: a header row,
// a delimiter row, and at least one data row, all with the same cell count.
func parseTableBlock(lines []string) (TableGrid, bool) {
	if len(lines) < 3 {
		return nil, false
	}

	header := splitTableCells(strings.TrimSpace(lines[0]))
	if len(header) == 0 {
		return nil, false
	}

	delim := strings.TrimSpace(lines[1])
	if !delimiterRowPattern.MatchString(delim) {
		return nil, false
	}
	if len(splitTableCells(delim)) != len(header) {
		return nil, false
	}

	grid := TableGrid{header}
	for _, line := range lines[2:] {
		cells := splitTableCells(strings.TrimSpace(line))
		if len(cells) != len(header) {
			return nil, false
		}
		grid = append(grid, cells)
	}
	return grid, true
}

// splitTableCells splits a table row on unescaped pipes and trims each cell.
// An escaped pipe (\|) stays inside its cell as a literal pipe. Leading and
// trailing empty cells from the |a|b| outer-pipe form are dropped.
func splitTableCells(line string) []string {
	var cells []string
	var cell strings.Builder

	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))

	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// FormatTable renders a grid back to Markdown pipe-table text, header first
// with a dash delimiter row. Literal pipes in cells are escaped. Alignment
// is not preserved; parsing the output yields an equal grid.
func FormatTable(grid TableGrid) string {
	if len(grid) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(grid[0])
	b.WriteString("|")
	for range grid[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}
	return b.String()
}
