package hotpaste

import (
	"regexp"
	"strings"
)

// LaTeX delimiter patterns emitted by chat assistants; pandoc wants the
// TeX-dollar forms instead.
var (
	displayMathPattern = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineMathPattern  = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)
)

// ConvertLaTeXDelimiters rewrites math delimiters to the form the converter
// expects: display math \[...\] becomes $$...$$ on its own lines and inline
// math \(...\) becomes $...$. Pure text transform, applied to Markdown
// before conversion.
func ConvertLaTeXDelimiters(text string) string {
	text = displayMathPattern.ReplaceAllStringFunc(text, func(m string) string {
		formula := strings.TrimSpace(displayMathPattern.FindStringSubmatch(m)[1])
		return "$$\n" + formula + "\n$$"
	})
	return inlineMathPattern.ReplaceAllStringFunc(text, func(m string) string {
		formula := strings.TrimSpace(inlineMathPattern.FindStringSubmatch(m)[1])
		return "$" + formula + "$"
	})
}
