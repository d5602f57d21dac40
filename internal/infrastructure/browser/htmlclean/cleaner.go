// Package htmlclean turns element markup into something readable in a
// terminal: noise tags and attributes are dropped, text is normalised.
package htmlclean

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaxOutputSize caps the returned string in bytes; zero disables the cap.
	MaxOutputSize int
}

var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "template",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	MaxOutputSize: 16_000,
}

const truncatedMarker = "\n<!-- truncated -->"

// Clean parses a fragment such as an element's outerHTML and renders it back
// without comments, noise tags and event/style attributes.
func Clean(raw string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	nodes, err := parseFragment(raw)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !cleanNode(n, cfg) {
			continue
		}
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

// VisibleText returns the text content of raw after cleaning, with runs of
// whitespace collapsed to single spaces.
func VisibleText(raw string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	nodes, err := parseFragment(raw)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, n := range nodes {
		if cleanNode(n, cfg) {
			collectText(n, &sb)
		}
	}
	text := strings.Join(strings.Fields(sb.String()), " ")
	return truncate(text, cfg.MaxOutputSize), nil
}

func parseFragment(raw string) ([]*html.Node, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), parent)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return nodes, nil
}

// cleanNode strips n's subtree in place and reports whether n itself survives.
func cleanNode(n *html.Node, cfg *Config) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.ElementNode:
		if isOneOf(n.Data, cfg.TagsToRemove...) {
			return false
		}
		n.Attr = filterAttributes(n.Attr, cfg)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !cleanNode(c, cfg) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func filterAttributes(attrs []html.Attribute, cfg *Config) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg *Config) bool {
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "on")
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:maxSize] + truncatedMarker
	}
	return s
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
