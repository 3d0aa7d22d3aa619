package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML serializes the tree as an HTML fragment. All text and attribute values
// are escaped by the serializer.
func HTML(n *Node) (string, error) {
	if n == nil {
		return "", &RenderError{Message: "nil preview tree"}
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return "", &RenderError{Message: "failed to serialize preview", Cause: err}
	}
	return buf.String(), nil
}

// Page wraps the tree in a standalone HTML document whose body is painted
// with the theme's primary color and sized to one A4 page. extraCSS is
// appended after the base rules.
func Page(n *Node, def themes.Definition, lang i18n.Language, extraCSS ...string) (string, error) {
	if n == nil {
		return "", &RenderError{Message: "nil preview tree"}
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element("html", html.Attribute{Key: "lang", Val: string(lang)})
	head := element("head")
	head.AppendChild(element("meta", html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element("title")
	title.AppendChild(&html.Node{Type: html.TextNode, Data: "CV"})
	head.AppendChild(title)
	style := element("style")
	style.AppendChild(&html.Node{Type: html.TextNode, Data: pageCSS(def) + strings.Join(extraCSS, "")})
	head.AppendChild(style)

	body := element("body")
	body.AppendChild(toHTML(n))

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", &RenderError{Message: "failed to serialize page", Cause: err}
	}
	return buf.String(), nil
}

func pageCSS(def themes.Definition) string {
	return fmt.Sprintf(
		"@page{size:%s %s;margin:0}html,body{margin:0;padding:0;width:%s;min-height:%s;background-color:%s}",
		PageWidth, PageHeight, PageWidth, PageHeight, def.Colors.Primary,
	)
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func toHTML(n *Node) *html.Node {
	if n.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	attrs := make([]html.Attribute, 0, len(n.Attrs)+3)
	if n.ID != "" {
		attrs = append(attrs, html.Attribute{Key: "id", Val: n.ID})
	}
	if n.Class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: n.Class})
	}
	for _, a := range n.Attrs {
		attrs = append(attrs, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if s := styleString(n.Style); s != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: s})
	}

	out := element(n.Tag, attrs...)
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}
