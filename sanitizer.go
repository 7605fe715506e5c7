package chatsanitizer

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultOrigin is the base URL relative hrefs resolve against when a
// Policy leaves Origin empty.
const DefaultOrigin = "https://localhost/"

// maxPasses bounds the re-parse loop in Sanitize.
const maxPasses = 4

// maxFlatDepth caps how deep flatten nests the tags it keeps.
const maxFlatDepth = 64

// Policy defines what HTML is considered safe. A Policy is only read by
// New; the compiled Sanitizer keeps its own copy.
type Policy struct {
	// AllowedTags is the list of tag names that are kept in output.
	// All other element nodes are unwrapped: the element goes, its
	// children are promoted in place.
	AllowedTags []string

	// AllowedSchemes lists the URL schemes permitted in the href of a
	// link after resolution against Origin. A link whose href fails
	// this check keeps its children but loses the href.
	AllowedSchemes []string

	// Origin is the page origin that relative hrefs resolve against.
	Origin string
}

// ChatPolicy returns the policy applied to assistant chat replies:
// paragraphs, line breaks, basic emphasis, lists, code and links to
// http, https, mailto or tel targets.
func ChatPolicy() *Policy {
	return &Policy{
		AllowedTags: []string{
			"p", "br",
			"strong", "em", "b", "i",
			"ul", "ol", "li",
			"code", "pre",
			"a",
		},
		AllowedSchemes: []string{"http", "https", "mailto", "tel"},
		Origin:         DefaultOrigin,
	}
}

// Sanitizer is the compiled, immutable form of a Policy. It is safe
// for concurrent use.
type Sanitizer struct {
	tags    map[string]bool
	schemes map[string]bool
	base    *url.URL
}

// New compiles p. If p is nil, ChatPolicy is used. The only failure is
// an Origin that is not an absolute URL with a host.
func New(p *Policy) (*Sanitizer, error) {
	if p == nil {
		p = ChatPolicy()
	}
	origin := p.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("chatsanitizer: parsing origin %q: %w", origin, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("chatsanitizer: origin %q is not an absolute URL", origin)
	}
	return &Sanitizer{
		tags:    sliceToSet(p.AllowedTags),
		schemes: sliceToSet(p.AllowedSchemes),
		base:    base,
	}, nil
}

// MustNew is like New but panics on error. It is intended for package
// level variables built from a constant Policy.
func MustNew(p *Policy) *Sanitizer {
	s, err := New(p)
	if err != nil {
		panic(err)
	}
	return s
}

var defaultSanitizer = MustNew(ChatPolicy())

// Sanitize applies ChatPolicy to raw and returns the sanitized HTML.
func Sanitize(raw string) string {
	return defaultSanitizer.Sanitize(raw)
}

// Sanitize parses raw as a <body> fragment, rebuilds the tree keeping
// only allowed elements, and serializes the result. It never fails:
// malformed markup is repaired the way the HTML5 tree builder repairs
// it, and empty input yields an empty string.
//
// The output is a fixed point: Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	out := s.pass(raw)
	for i := 1; i < maxPasses; i++ {
		next := s.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// SanitizeReader reads HTML from r and sanitizes it. A nil reader is
// treated as empty input. Only read errors are returned.
func (s *Sanitizer) SanitizeReader(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return s.Sanitize(string(raw)), nil
}

// StripTags removes all markup from raw and returns the text content.
// Comments are dropped along with their content and entity references
// are decoded.
func StripTags(raw string) string {
	if raw == "" {
		return ""
	}
	nodes, err := parseFragment(raw)
	if err != nil {
		return tokenText(raw)
	}
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return buf.String()
}

// pass is one parse, filter, serialize round.
func (s *Sanitizer) pass(raw string) string {
	nodes, err := parseFragment(raw)
	if err != nil {
		// The tree builder refuses input nested more than 512
		// elements deep. Rebuild it from the token stream and retry.
		nodes, err = parseFragment(s.flatten(raw))
		if err != nil {
			return html.EscapeString(tokenText(raw))
		}
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		for _, c := range s.filter(n) {
			render(&buf, c)
		}
	}
	return buf.String()
}

// filter returns the sanitized replacement for n as a list of fresh,
// detached nodes. The input tree is never modified.
func (s *Sanitizer) filter(n *html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}

	case html.ElementNode:
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, s.filter(c)...)
		}
		tag := strings.ToLower(n.Data)
		if n.Namespace != "" || !s.tags[tag] {
			// Unwrap.
			return children
		}
		el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
		if tag == "a" {
			el.Attr = s.linkAttrs(n)
		}
		for _, c := range children {
			el.AppendChild(c)
		}
		return []*html.Node{el}

	default:
		// Comments, doctypes and anything else carry no content we keep.
		return nil
	}
}

// linkAttrs returns the attribute list for a surviving link: either
// nothing, or a validated href plus the forced target and rel.
func (s *Sanitizer) linkAttrs(n *html.Node) []html.Attribute {
	href, ok := lookupAttr(n, "href")
	if !ok || !s.hrefAllowed(href) {
		return nil
	}
	return []html.Attribute{
		{Key: "href", Val: href},
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener noreferrer"},
	}
}

// hrefAllowed resolves raw against the origin and reports whether the
// resulting scheme is allowed. Entity references are already decoded
// by the parser.
func (s *Sanitizer) hrefAllowed(raw string) bool {
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return r <= 0x20
	})
	// Tabs and newlines anywhere in a URL are ignored by browsers.
	cleaned = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, cleaned)

	ref, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	return s.schemes[strings.ToLower(s.base.ResolveReference(ref).Scheme)]
}

// flatten rewrites raw from its token stream without building a tree.
// Allowed tags are kept with the same link checks as filter, closed in
// order, and nested no deeper than maxFlatDepth. Everything else is
// unwrapped and comments are dropped.
func (s *Sanitizer) flatten(raw string) string {
	var buf bytes.Buffer
	var open []string
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				if i < maxFlatDepth {
					writeEndTag(&buf, open[i])
				}
			}
			return buf.String()

		case html.TextToken:
			buf.WriteString(html.EscapeString(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !s.tags[tok.Data] {
				continue
			}
			var attrs []html.Attribute
			if tok.Data == "a" {
				attrs = s.linkAttrs(&html.Node{Type: html.ElementNode, Data: tok.Data, Attr: tok.Attr})
			}
			if isVoidElement(tok.Data) {
				writeStartTag(&buf, tok.Data, attrs)
				continue
			}
			if len(open) < maxFlatDepth {
				writeStartTag(&buf, tok.Data, attrs)
			}
			open = append(open, tok.Data)

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != tag {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					if j < maxFlatDepth {
						writeEndTag(&buf, open[j])
					}
				}
				open = open[:i]
				break
			}
		}
	}
}

// --- helpers ---------------------------------------------------------

// tokenText returns the text tokens of raw, entity references decoded.
func tokenText(raw string) string {
	var buf bytes.Buffer
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.TextToken:
			buf.Write(z.Text())
		}
	}
}

func parseFragment(raw string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(raw), body)
}

func render(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))

	case html.ElementNode:
		writeStartTag(buf, n.Data, n.Attr)
		if isVoidElement(n.Data) {
			return
		}
		// The parser drops a newline directly after <pre>; write one
		// back so a leading newline in the content survives a re-parse.
		if n.Data == "pre" {
			if c := n.FirstChild; c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
				buf.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(buf, c)
		}
		writeEndTag(buf, n.Data)
	}
}

// writeStartTag writes an opening tag. Void elements are self-closed.
func writeStartTag(buf *bytes.Buffer, tag string, attrs []html.Attribute) {
	buf.WriteByte('<')
	buf.WriteString(tag)
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Val))
		buf.WriteByte('"')
	}
	if isVoidElement(tag) {
		buf.WriteString(" />")
		return
	}
	buf.WriteByte('>')
}

func writeEndTag(buf *bytes.Buffer, tag string) {
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[strings.ToLower(v)] = true
	}
	return m
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
