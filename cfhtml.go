package hotpaste

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlShell wraps a sanitized fragment in a minimal UTF-8 document.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
</head>
<body>
%s
</body>
</html>`

// fragmentAnchors matches the CF_HTML comment-pair fallback.
var fragmentAnchors = regexp.MustCompile(`(?s)<!--StartFragment-->(.*)<!--EndFragment-->`)

// strikethroughPattern matches literal Markdown strikethrough syntax.
var strikethroughPattern = regexp.MustCompile(`~~([^~]+)~~`)

// ExtractFragment slices the user-visible fragment out of a raw CF_HTML
// payload. The payload starts with colon-separated metadata lines followed
// by an HTML document; StartFragment/EndFragment give byte offsets into the
// whole payload. Fallback order: offsets, comment anchors, StartHTML/EndHTML
// offsets, the entire payload. Malformed metadata never fails, it degrades
// to the next strategy.
func ExtractFragment(payload string) string {
	meta := parseCFHTMLHeader(payload)

	if frag, ok := sliceAt(payload, meta["StartFragment"], meta["EndFragment"]); ok {
		return frag
	}

	if m := fragmentAnchors.FindStringSubmatch(payload); m != nil {
		return m[1]
	}

	start := meta["StartHTML"]
	end := meta["EndHTML"]
	if end == "" {
		end = strconv.Itoa(len(payload))
	}
	if start == "" {
		start = "0"
	}
	if frag, ok := sliceAt(payload, start, end); ok {
		return frag
	}

	return payload
}

// parseCFHTMLHeader reads the metadata lines preceding the HTML document.
func parseCFHTMLHeader(payload string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(payload, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "<") {
			break
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return meta
}

// sliceAt slices payload at decimal byte offsets, rejecting anything
// malformed or out of range.
func sliceAt(payload, startStr, endStr string) (string, bool) {
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return "", false
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return "", false
	}
	if start < 0 || end < start || end > len(payload) {
		return "", false
	}
	return payload[start:end], true
}

// SanitizeFragment removes markup the conversion target cannot represent and
// wraps the fragment in a standalone UTF-8 document: every <svg> subtree and
// every <img> whose src ends in .svg (case-insensitive) is dropped. When
// literalHTML is set the fragment is bound for an HTML-aware converter, so
// literal ~~text~~ in text nodes is additionally rewritten to <s> elements;
// plain-Markdown fragments skip that to avoid double-processing.
//
// SanitizeFragment never fails: if the fragment does not parse, the raw
// input is returned wrapped in the shell.
func SanitizeFragment(fragment string, literalHTML bool) HTMLFragment {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return HTMLFragment{Raw: fragment, Sanitized: fmt.Sprintf(htmlShell, fragment)}
	}

	removeVectorMarkup(doc)
	if literalHTML {
		convertStrikethrough(doc)
	}

	var b strings.Builder
	if body := findElement(doc, atom.Body); body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&b, c); err != nil {
				return HTMLFragment{Raw: fragment, Sanitized: fmt.Sprintf(htmlShell, fragment)}
			}
		}
	}
	return HTMLFragment{Raw: fragment, Sanitized: fmt.Sprintf(htmlShell, b.String())}
}

// removeVectorMarkup drops <svg> subtrees and <img src="*.svg"> elements.
func removeVectorMarkup(n *html.Node) {
	var doomed []*html.Node
	walkNodes(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode {
			return true
		}
		if node.Data == "svg" {
			doomed = append(doomed, node)
			return false
		}
		if node.DataAtom == atom.Img && hasSVGSource(node) {
			doomed = append(doomed, node)
			return false
		}
		return true
	})
	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// hasSVGSource reports whether an img element references a vector image.
func hasSVGSource(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "src" {
			return strings.HasSuffix(strings.ToLower(a.Val), ".svg")
		}
	}
	return false
}

// convertStrikethrough rewrites ~~text~~ occurrences in text nodes into
// semantic <s> elements, splitting the text node around each match.
func convertStrikethrough(n *html.Node) {
	var textNodes []*html.Node
	walkNodes(n, func(node *html.Node) bool {
		if node.Type == html.TextNode && strikethroughPattern.MatchString(node.Data) {
			textNodes = append(textNodes, node)
		}
		return true
	})

	for _, node := range textNodes {
		parent := node.Parent
		if parent == nil {
			continue
		}
		rest := node.Data
		for {
			loc := strikethroughPattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				break
			}
			if before := rest[:loc[0]]; before != "" {
				parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, node)
			}
			s := &html.Node{Type: html.ElementNode, Data: "s", DataAtom: atom.S}
			s.AppendChild(&html.Node{Type: html.TextNode, Data: rest[loc[2]:loc[3]]})
			parent.InsertBefore(s, node)
			rest = rest[loc[1]:]
		}
		if rest != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: rest}, node)
		}
		parent.RemoveChild(node)
	}
}

// findElement returns the first element with the given atom, depth first.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// walkNodes visits n and its subtree in document order. Returning false from
// visit skips the node's children.
func walkNodes(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}
