package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Session is a signed-in browser tab without a browser: it keeps the
// session cookie, follows redirects and submits the forms the UI renders.
type Session struct {
	BaseURL string
	HTTP    *http.Client

	// Page is the page the session currently shows.
	Page *Page
}

func NewSession(baseURL string) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: &http.Client{Jar: jar}}, nil
}

func (s *Session) load(req *http.Request) (*Page, error) {
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := parsePage(resp.Request.URL, resp.StatusCode, resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return page, fmt.Errorf("%s %s: status %d: %s", req.Method, resp.Request.URL.Path, resp.StatusCode, TrimmedText(page.Find(ByClass("error-page__message"))))
	}
	s.Page = page
	return page, nil
}

// Visit opens path, e.g. "/team/channels/town-square".
func (s *Session) Visit(ctx context.Context, path string) (*Page, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return s.load(req)
}

// Login signs in through the login form and lands on the user's first team.
func (s *Session) Login(ctx context.Context, username, password string) (*Page, error) {
	if _, err := s.Visit(ctx, "/login"); err != nil {
		return nil, err
	}
	return s.Submit(ctx, "login_form", url.Values{"login_id": {username}, "password": {password}})
}

func (s *Session) Logout(ctx context.Context) error {
	_, err := s.Visit(ctx, "/logout")
	return err
}

// Submit posts the form with the given id on the current page. Hidden
// inputs are sent along and values overrides the named fields.
func (s *Session) Submit(ctx context.Context, formID string, values url.Values) (*Page, error) {
	if s.Page == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	form := s.Page.ByID(formID)
	if form == nil {
		return nil, fmt.Errorf("form #%s not found on %s", formID, s.Page.URL.Path)
	}

	data := url.Values{}
	for _, input := range FindAll(form, ByTag("input")) {
		if Attr(input, "type") == "hidden" && Attr(input, "name") != "" {
			data.Set(Attr(input, "name"), Attr(input, "value"))
		}
	}
	for k, v := range values {
		data[k] = v
	}

	action, err := s.Page.URL.Parse(Attr(form, "action"))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action.String(), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.load(req)
}

// PostMessage types text into the centre message box and presses enter.
func (s *Session) PostMessage(ctx context.Context, text string) (*Page, error) {
	return s.Submit(ctx, "create_post", url.Values{"message": {text}})
}

// Reply types text into the thread reply box and presses "Add Comment".
func (s *Session) Reply(ctx context.Context, text string) (*Page, error) {
	return s.Submit(ctx, "reply_form", url.Values{"message": {text}})
}

// Follow navigates to the href of n.
func (s *Session) Follow(ctx context.Context, n *html.Node) (*Page, error) {
	if n == nil {
		return nil, fmt.Errorf("no link to follow")
	}
	target, err := s.Page.URL.Parse(Attr(n, "href"))
	if err != nil {
		return nil, err
	}
	return s.Visit(ctx, target.RequestURI())
}

// ClickPostCommentIcon opens the thread of a centre post, the newest one
// when postID is empty.
func (s *Session) ClickPostCommentIcon(ctx context.Context, postID string) (*Page, error) {
	if postID == "" {
		postID = s.Page.LastPostID()
	}
	return s.Follow(ctx, Find(s.Page.ByID("post_"+postID), ByClass("post__comment-icon")))
}

// ClickSidebarItem opens the sidebar channel whose label contains name.
func (s *Session) ClickSidebarItem(ctx context.Context, name string) (*Page, error) {
	container := s.Page.ByID("sidebarChannelContainer")
	return s.Follow(ctx, Find(container, Containing(ByClass("sidebar-item"), name)))
}

// OpenDirectMessage opens the DM with username through the sidebar form.
func (s *Session) OpenDirectMessage(ctx context.Context, username string) (*Page, error) {
	return s.Submit(ctx, "addDirectChannel", url.Values{"username": {username}})
}

// CreatePublicChannel creates a channel through the sidebar form.
func (s *Session) CreatePublicChannel(ctx context.Context, displayName string) (*Page, error) {
	return s.Submit(ctx, "createPublicChannel", url.Values{"display_name": {displayName}})
}

// Suggestions returns the items the suggestion list shows for text.
func (s *Session) Suggestions(ctx context.Context, text string) ([]*html.Node, error) {
	team := Attr(s.Page.Find(ByTag("body")), "data-team")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/"+team+"/suggestions?text="+url.QueryEscape(text), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	nodes, err := html.ParseFragment(resp.Body, &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div})
	if err != nil {
		return nil, err
	}
	var items []*html.Node
	for _, n := range nodes {
		if HasClass(n, "suggestion-list__item") {
			items = append(items, n)
		}
	}
	return items, nil
}
