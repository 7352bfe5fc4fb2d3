// Package markdown renders the editor's embedded help documents.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var (
	bfRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink | blackfriday.NofollowLinks | blackfriday.HrefTargetBlank | blackfriday.Smartypants | blackfriday.SmartypantsDashes,
	})
	bfExtensions = blackfriday.NoIntraEmphasis | blackfriday.Tables | blackfriday.FencedCode | blackfriday.Autolink | blackfriday.Strikethrough | blackfriday.SpaceHeadings | blackfriday.HeadingIDs | blackfriday.AutoHeadingIDs
	policy       = bluemonday.UGCPolicy()
)

// Document is a markdown source with lazily rendered, sanitized HTML.
// It is safe for concurrent use.
type Document struct {
	Source string

	once sync.Once
	html template.HTML
}

// New wraps source in a Document.
func New(source string) *Document {
	return &Document{Source: source}
}

// Load reads a markdown document from fsys.
func Load(fsys fs.FS, name string) (*Document, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load markdown %s: %w", name, err)
	}
	return New(string(b)), nil
}

// Render converts the Source into sanitized HTML.
func (d *Document) Render() template.HTML {
	d.once.Do(func() {
		if strings.TrimSpace(d.Source) == "" {
			return
		}
		safe := policy.SanitizeBytes(run(d.Source))
		d.html = template.HTML(bytes.TrimSpace(safe))
	})
	return d.html
}

// PlainText returns the document with all markup removed.
func (d *Document) PlainText() string {
	return string(bytes.TrimSpace(bluemonday.StrictPolicy().SanitizeBytes(run(d.Source))))
}

// Title returns the text of the first level-one heading, or "".
func (d *Document) Title() string {
	for _, line := range strings.Split(d.Source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

func run(src string) []byte {
	return blackfriday.Run([]byte(src),
		blackfriday.WithRenderer(bfRenderer),
		blackfriday.WithExtensions(bfExtensions),
	)
}
