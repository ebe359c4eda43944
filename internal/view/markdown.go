package view

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Raw HTML in profiles is dropped; goldmark escapes it unless WithUnsafe is set.
var (
	md      = newMarkdown()
	modalMD = newMarkdown(goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(linkIDs{prefix: ModalLinkIDPrefix}, 500)),
	))
)

func newMarkdown(opts ...goldmark.Option) goldmark.Markdown {
	return goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	}, opts...)...)
}

// Markdown renders profile text. On failure the text is shown escaped.
func Markdown(src string) template.HTML {
	return convert(md, src)
}

// ModalMarkdown renders profile text for the modal. Links get ids so the
// focus trap can reach them.
func ModalMarkdown(src string) template.HTML {
	return convert(modalMD, src)
}

func convert(m goldmark.Markdown, src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.Convert([]byte(src), &buf); err != nil {
		slog.Warn("render profile markdown", "error", err)
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

// linkIDs numbers the links of a document in order as <prefix>-1, <prefix>-2...
type linkIDs struct {
	prefix string
}

func (l linkIDs) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	n := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.(type) {
		case *ast.Link, *ast.AutoLink:
			n++
			node.SetAttributeString("id", []byte(fmt.Sprintf("%s-%d", l.prefix, n)))
		}
		return ast.WalkContinue, nil
	})
}
