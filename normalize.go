package hotpaste

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Header pattern (ATX style)
	headerPattern = regexp.MustCompile(`^#{1,6}\s`)

	// Horizontal rule (dashes, stars, or underscores)
	horizontalRulePattern = regexp.MustCompile(`^[-*_]{3,}$`)

	// List item patterns (unordered and ordered)
	unorderedListPattern = regexp.MustCompile(`^[-*+]\s`)
	orderedListPattern   = regexp.MustCompile(`^[0-9]+\.\s`)
)

// lineType classifies a Markdown line for blank-line insertion decisions.
type lineType int

const (
	lineStart lineType = iota
	lineEmpty
	lineText
	lineHeading
	lineCode
	lineTable
	lineList
	lineQuote
	lineRule
)

// NormalizeMarkdown rewrites loosely formatted Markdown so block-level
// constructs are surrounded by blank lines, as strict parsers require.
// Content inside fenced code blocks is left untouched, blank runs are
// collapsed to a single blank line, and the input's line-ending style is
// preserved. Normalizing already-normalized text is a no-op.
func NormalizeMarkdown(markdown string) string {
	hadCRLF := strings.Contains(markdown, "\r\n")
	text := crlfOrCR.ReplaceAllString(markdown, "\n")
	lines := strings.Split(text, "\n")

	result := make([]string, 0, len(lines))
	inCode := false
	prev := lineStart

	for i, line := range lines {
		current := classifyLine(line, inCode)

		// Fence delimiters toggle the code flag after classification so the
		// delimiter line itself is still typed as code.
		closingFence := false
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			closingFence = !inCode
		}

		if needsBlankBefore(prev, current) && len(result) > 0 && strings.TrimSpace(result[len(result)-1]) != "" {
			result = append(result, "")
		}
		result = append(result, line)

		if needsBlankAfter(current, closingFence) && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			result = append(result, "")
		}

		if strings.TrimSpace(line) == "" {
			prev = lineEmpty
		} else {
			prev = current
		}
	}

	out := strings.Join(result, "\n")
	out = multipleBlankLines.ReplaceAllString(out, "\n\n")

	if hadCRLF {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out
}

// classifyLine determines the line type. The code-block flag takes precedence
// over every other pattern so fenced content is never misclassified.
func classifyLine(line string, inCode bool) lineType {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return lineEmpty
	}
	if inCode {
		return lineCode
	}
	if strings.HasPrefix(line, "```") {
		return lineCode
	}
	if headerPattern.MatchString(line) {
		return lineHeading
	}
	if strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
		return lineTable
	}
	if horizontalRulePattern.MatchString(stripped) {
		return lineRule
	}
	if unorderedListPattern.MatchString(line) || orderedListPattern.MatchString(line) {
		return lineList
	}
	if strings.HasPrefix(line, ">") {
		return lineQuote
	}
	return lineText
}

// needsBlankBefore implements the insertion rule table: a blank line goes
// before the first line of a block construct unless the previous line already
// belongs to the same construct.
func needsBlankBefore(prev, current lineType) bool {
	if prev == lineStart || prev == lineEmpty || current == lineEmpty {
		return false
	}
	switch current {
	case lineHeading:
		return prev != lineHeading
	case lineCode:
		return prev != lineCode
	case lineTable:
		return prev != lineTable
	case lineList:
		return prev != lineList
	case lineQuote:
		return prev != lineQuote
	case lineRule:
		return true
	}
	return false
}

// needsBlankAfter reports whether a blank line belongs after the current
// line: headings, horizontal rules, and closing code fences.
func needsBlankAfter(current lineType, closingFence bool) bool {
	return current == lineHeading || current == lineRule || closingFence
}
