package hotpaste

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// markdownDowngrader converts HTML fragments to Markdown. The table plugin
// matters: without it an HTML table flattens to prose and the spreadsheet
// probe can never see it.
var markdownDowngrader = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// downgradeHTML converts an HTML fragment to Markdown text. Routing uses it
// when the clipboard holds HTML but the workflow needs Markdown: probing a
// rich-text selection for a pipe table, and recovering the text of fragments
// the classifier marks as plain wrappers.
func downgradeHTML(fragment string) (string, error) {
	return markdownDowngrader.ConvertString(fragment)
}
