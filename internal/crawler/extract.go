package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var categoryHrefRe = regexp.MustCompile(`/wiki/Category:`)

// articleHrefRe matches article-namespace links on a category listing page.
// Namespaced links (File:, Category:, Special:, ...) are excluded by the
// no-colon constraint.
var articleHrefRe = regexp.MustCompile(`^/wiki/[^:]+$`)

// walk calls fn for every node in the subtree rooted at n, depth-first.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the node's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findElement returns the first element in document order matching pred.
func findElement(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var search func(*html.Node) bool
	search = func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if search(c) {
				return true
			}
		}
		return false
	}
	search(root)
	return found
}

// textContent flattens the text below n, trimming each text node and joining
// non-empty pieces with sep. Subtrees whose element name is in skip are
// omitted entirely.
func textContent(n *html.Node, skip map[string]bool, sep string) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && skip[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, sep)
}

// extractTitle returns the page heading, or "Unknown Title" when the
// expected heading element is missing.
func extractTitle(doc *html.Node) string {
	h1 := findElement(doc, func(n *html.Node) bool {
		return n.Data == "h1" && hasClass(n, "firstHeading")
	})
	if h1 == nil {
		return "Unknown Title"
	}
	if t := strings.TrimSpace(textContent(h1, nil, " ")); t != "" {
		return t
	}
	return "Unknown Title"
}

// extractContent returns the flattened text of the primary content
// container, with script/style/nav/aside subtrees removed and line breaks
// preserved as separators. Missing container degrades to "".
func extractContent(doc *html.Node) string {
	div := findElement(doc, func(n *html.Node) bool {
		return n.Data == "div" && attr(n, "id") == "mw-content-text"
	})
	if div == nil {
		return ""
	}
	skip := map[string]bool{"script": true, "style": true, "nav": true, "aside": true}
	return textContent(div, skip, "\n")
}

// extractCategories returns the display text of category-namespace links,
// deduplicated in document order.
func extractCategories(doc *html.Node) []string {
	seen := make(map[string]struct{})
	var out []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		if !categoryHrefRe.MatchString(attr(n, "href")) {
			return
		}
		cat := strings.TrimSpace(textContent(n, nil, " "))
		if cat == "" {
			return
		}
		if _, ok := seen[cat]; ok {
			return
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	})
	return out
}

// extractInternalLinks returns absolute URLs of article-namespace links,
// deduplicated in document order. Used only for category expansion.
func extractInternalLinks(doc *html.Node, base *url.URL) []string {
	seen := make(map[string]struct{})
	var out []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if !strings.HasPrefix(href, "/wiki/") || strings.Contains(href, ":") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref).String()
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	})
	return out
}

// extractImages returns image URLs normalized to absolute form:
// protocol-relative sources gain https, root-relative sources are joined
// against the base URL.
func extractImages(doc *html.Node, base *url.URL) []string {
	var out []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "img" {
			return
		}
		src := attr(n, "src")
		if src == "" {
			return
		}
		switch {
		case strings.HasPrefix(src, "//"):
			src = "https:" + src
		case strings.HasPrefix(src, "/"):
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		out = append(out, src)
	})
	return out
}

// extractInfobox parses the first two-column infobox table into a key/value
// mapping. Returns nil when there is no infobox or it yields zero pairs.
func extractInfobox(doc *html.Node) map[string]string {
	table := findElement(doc, func(n *html.Node) bool {
		return n.Data == "table" && hasClass(n, "infobox")
	})
	if table == nil {
		return nil
	}

	data := make(map[string]string)
	walk(table, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "tr" {
			return
		}
		var cells []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
				cells = append(cells, c)
			}
		}
		if len(cells) != 2 {
			return
		}
		key := strings.TrimSpace(textContent(cells[0], nil, " "))
		val := strings.TrimSpace(textContent(cells[1], nil, " "))
		if key != "" {
			data[key] = val
		}
	})

	if len(data) == 0 {
		return nil
	}
	return data
}

// extractArticleLinks returns links on a category listing page that point
// into the article namespace, in document order and capped implicitly by the
// caller. Duplicates are preserved; the visited set makes refetches no-ops.
func extractArticleLinks(doc *html.Node, base *url.URL) []string {
	var out []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if !articleHrefRe.MatchString(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		out = append(out, base.ResolveReference(ref).String())
	})
	return out
}
