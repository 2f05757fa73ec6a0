package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstHeading returns the text of the first level-1 heading in body, or the
// empty string when none exists. Only the AST is built; nothing is rendered.
func FirstHeading(engine goldmark.Markdown, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if engine == nil {
		engine = goldmark.New()
	}

	root := engine.Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(string(heading.Text(body)))
		return ast.WalkStop, nil
	})
	return title
}
