// Package markdown renders post messages to sanitised HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	lru "github.com/hashicorp/golang-lru"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const defaultCacheSize = 4096

// Renderer converts markdown to HTML and caches the output per message.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  *lru.Cache
}

// NewRenderer builds a Renderer. size <= 0 selects the default cache size.
func NewRenderer(size int) (*Renderer, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("error creating markdown cache: %w", err)
	}
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
		policy: bluemonday.UGCPolicy().RequireNoFollowOnLinks(true).AddTargetBlankToFullyQualifiedLinks(true),
		cache:  cache,
	}, nil
}

// Render returns the sanitised HTML of message.
func (r *Renderer) Render(message string) (template.HTML, error) {
	if v, ok := r.cache.Get(message); ok {
		return v.(template.HTML), nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(message), &buf); err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	out := template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
	r.cache.Add(message, out)
	return out, nil
}

// Text renders message and strips every tag, leaving the visible text.
func (r *Renderer) Text(message string) (string, error) {
	html, err := r.Render(message)
	if err != nil {
		return "", err
	}
	return bluemonday.StrictPolicy().Sanitize(string(html)), nil
}
