package mentions

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"tagtally/pkg/config"
)

// Post is one matched post fragment from a search results page
type Post struct {
	// ID is stable across page loads: the source's post id when the markup
	// carries one, otherwise a digest of the post text.
	ID   string
	Text string
	Node *html.Node
}

// Extractor finds posts on a page and mentions inside a post. The selectors
// are the markup contract with the data source.
type Extractor struct {
	PostSelector    string
	MentionSelector string
	IDAttribute     string
}

// NewExtractor builds an Extractor from the source configuration
func NewExtractor(cfg config.SourceConfig) *Extractor {
	return &Extractor{
		PostSelector:    cfg.PostSelector,
		MentionSelector: cfg.MentionSelector,
		IDAttribute:     cfg.IDAttribute,
	}
}

// Posts parses page and returns every post fragment in document order.
// Malformed markup is parsed best-effort; the error is only non-nil when the
// page cannot be read at all.
func (e *Extractor) Posts(page []byte) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	posts := make([]Post, 0)
	doc.Find(e.PostSelector).Each(func(_ int, s *goquery.Selection) {
		posts = append(posts, e.newPost(s))
	})
	return posts, nil
}

func (e *Extractor) newPost(s *goquery.Selection) Post {
	text := collapseWhitespace(s.Text())
	return Post{
		ID:   e.postID(s, text),
		Text: text,
		Node: s.Get(0),
	}
}

func (e *Extractor) postID(s *goquery.Selection, text string) string {
	if e.IDAttribute != "" {
		if id, ok := s.Closest("[" + e.IDAttribute + "]").Attr(e.IDAttribute); ok && id != "" {
			return id
		}
	}
	sum := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Mentions returns the usernames mentioned in post, in document order.
// A nil or empty post yields an empty slice.
func (e *Extractor) Mentions(post *Post) []string {
	users := make([]string, 0)
	if post == nil || post.Node == nil {
		return users
	}

	goquery.NewDocumentFromNode(post.Node).
		Find(e.MentionSelector).
		Each(func(_ int, s *goquery.Selection) {
			if name := Username(nodeText(s.Get(0))); name != "" {
				users = append(users, name)
			}
		})
	return users
}

// MentionsInFragment is Mentions for a raw markup fragment
func (e *Extractor) MentionsInFragment(fragment string) []string {
	return e.Mentions(e.PostFromFragment(fragment))
}

// PostFromFragment parses a standalone post fragment. It returns nil for an
// empty fragment.
func (e *Extractor) PostFromFragment(fragment string) *Post {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	post := e.newPost(goquery.NewDocumentFromNode(root).Selection)
	return &post
}

// Username normalizes the visible text of a mention link
func Username(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "@")
	return strings.TrimSpace(text)
}

// nodeText concatenates all text nodes under node
func nodeText(node *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return buf.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
