package preview

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, child := range children {
		n.AppendChild(child)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// CardNode builds the markup of a single post card
func CardNode(item viewmodel.DisplayItem) *html.Node {
	return element(atom.Div, "api-card",
		element(atom.Div, "api-card-header",
			element(atom.H3, "api-card-title", text(item.Title)),
			element(atom.Span, "api-card-badge", text(fmt.Sprintf("User %d", item.UserID))),
		),
		element(atom.P, "api-card-description", text(item.Description)),
		element(atom.Div, "api-card-footer",
			element(atom.Small, "", text(item.Timestamp)),
		),
	)
}

// CardGridNode wraps every item card in the grid container
func CardGridNode(items []viewmodel.DisplayItem) *html.Node {
	grid := element(atom.Div, "api-grid")
	for _, item := range items {
		grid.AppendChild(CardNode(item))
	}
	return grid
}

// WriteCardsHTML renders the card grid to w. Text is escaped by the renderer.
func WriteCardsHTML(w io.Writer, items []viewmodel.DisplayItem) error {
	if err := html.Render(w, CardGridNode(items)); err != nil {
		return fmt.Errorf("failed to render cards: %w", err)
	}
	return nil
}

// RenderCardsHTML returns the card grid markup
func RenderCardsHTML(items []viewmodel.DisplayItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCardsHTML(&buf, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
