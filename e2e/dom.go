// Package e2e drives a running Parley instance the way a user would: it
// seeds fixtures through the JSON API, acts through the web UI and checks
// the rendered DOM.
package e2e

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Page is a parsed HTML response.
type Page struct {
	URL    *url.URL
	Status int
	Root   *html.Node
}

func parsePage(u *url.URL, status int, body io.Reader) (*Page, error) {
	root, err := html.Parse(body)
	if err != nil {
		return nil, err
	}
	return &Page{URL: u, Status: status, Root: root}, nil
}

// Matcher selects nodes.
type Matcher func(*html.Node) bool

func ByID(id string) Matcher {
	return func(n *html.Node) bool { return Attr(n, "id") == id }
}

func ByIDPrefix(prefix string) Matcher {
	return func(n *html.Node) bool { return strings.HasPrefix(Attr(n, "id"), prefix) }
}

func ByClass(class string) Matcher {
	return func(n *html.Node) bool { return HasClass(n, class) }
}

func ByTag(tag string) Matcher {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

// Containing matches elements whose text includes s.
func Containing(m Matcher, s string) Matcher {
	return func(n *html.Node) bool { return m(n) && strings.Contains(Text(n), s) }
}

// FindAll returns the elements under n, n excluded, matching m in document order.
func FindAll(n *html.Node, m Matcher) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && m(c) {
			out = append(out, c)
		}
		out = append(out, FindAll(c, m)...)
	}
	return out
}

// Find returns the first match under n or nil.
func Find(n *html.Node, m Matcher) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

func (p *Page) Find(m Matcher) *html.Node { return Find(p.Root, m) }

func (p *Page) FindAll(m Matcher) []*html.Node { return FindAll(p.Root, m) }

func (p *Page) ByID(id string) *html.Node { return Find(p.Root, ByID(id)) }

func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the text content of n, like Node.textContent.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// TrimmedText is Text with surrounding whitespace removed.
func TrimmedText(n *html.Node) string {
	return strings.TrimSpace(Text(n))
}

// LastPostID returns the id of the newest post in the centre channel view.
func (p *Page) LastPostID() string {
	list := p.ByID("postListContent")
	posts := FindAll(list, ByIDPrefix("post_"))
	if len(posts) == 0 {
		return ""
	}
	return strings.TrimPrefix(Attr(posts[len(posts)-1], "id"), "post_")
}

// PostText returns the rendered message of a post in the centre view.
func (p *Page) PostText(postID string) string {
	return TrimmedText(p.ByID("postMessageText_" + postID))
}

// LastPostText is PostText of LastPostID.
func (p *Page) LastPostText() string {
	return p.PostText(p.LastPostID())
}

// PostAuthor returns the text of the author button of a post.
func (p *Page) PostAuthor(postID string) string {
	return TrimmedText(Find(p.ByID("post_"+postID), ByClass("user-popover")))
}

// ChannelHeader returns the text of the channel header title bar.
func (p *Page) ChannelHeader() string {
	return TrimmedText(p.Find(ByClass("channel-header__top")))
}

// SidebarLink returns the sidebar item whose href contains hrefPart.
func (p *Page) SidebarLink(hrefPart string) *html.Node {
	container := p.ByID("sidebarChannelContainer")
	return Find(container, func(n *html.Node) bool {
		return HasClass(n, "sidebar-item") && strings.Contains(Attr(n, "href"), hrefPart)
	})
}

// PostListIncludes reports whether any post in the centre view contains s,
// the server side counterpart of waiting until a message is posted.
func (p *Page) PostListIncludes(s string) bool {
	return strings.Contains(Text(p.ByID("postListContent")), s)
}
