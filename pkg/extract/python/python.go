// Package python extracts public declarations from Python sources using
// tree-sitter. A top-level def or class is public when its name has no
// leading underscore; its description is the docstring. Functions decorated
// with FastAPI-style route decorators are classified as routes.
package python

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	pysitter "github.com/smacker/go-tree-sitter/python"

	"github.com/greyhaven-ai/doccov/pkg/extract"
)

// Extensions handled by this extractor.
var Extensions = []string{".py"}

func init() {
	extract.DefaultRegistry.Register("python", Extensions, func() extract.Extractor {
		return New()
	})
}

// routeDecorator matches decorators like @app.get("/users") and
// @router.post("/orders").
var routeDecorator = regexp.MustCompile(`^@\w+\.(get|post|put|patch|delete|options|head|websocket)\b`)

// Extractor extracts public declarations from Python files.
type Extractor struct {
	parser *sitter.Parser
}

// New creates a Python extractor.
func New() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(pysitter.GetLanguage())
	return &Extractor{parser: p}
}

// Language returns the extractor's language identifier.
func (e *Extractor) Language() string {
	return "python"
}

// ExtractFile parses one source file and returns its public declarations.
func (e *Extractor) ExtractFile(ctx context.Context, rel string, src []byte) (*extract.FileResult, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &extract.FileResult{File: rel, Language: "python"}

	root := tree.RootNode()
	if root.HasError() {
		result.Err = &extract.FileError{File: rel, Message: "syntax error"}
		return result, nil
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		result.Declarations = append(result.Declarations, e.extractNode(child, src, rel)...)
	}

	result.Declarations = extract.DedupeDeclarations(result.Declarations)
	return result, nil
}

// extractNode handles one top-level node.
func (e *Extractor) extractNode(node *sitter.Node, src []byte, rel string) []*extract.Declaration {
	switch node.Type() {
	case "function_definition":
		if d := e.function(node, src, rel, "", extract.KindFunction); d != nil {
			return []*extract.Declaration{d}
		}

	case "class_definition":
		return e.class(node, src, rel)

	case "decorated_definition":
		def := definitionIn(node)
		if def == nil {
			return nil
		}
		switch def.Type() {
		case "function_definition":
			kind := extract.KindFunction
			if isRouteHandler(node, src) {
				kind = extract.KindRoute
			}
			if d := e.function(def, src, rel, "", kind); d != nil {
				d.Line = int(node.StartPoint().Row) + 1
				return []*extract.Declaration{d}
			}
		case "class_definition":
			decls := e.class(def, src, rel)
			if len(decls) > 0 {
				decls[0].Line = int(node.StartPoint().Row) + 1
			}
			return decls
		}
	}
	return nil
}

// function builds a declaration for a def node, or nil for private names.
func (e *Extractor) function(node *sitter.Node, src []byte, rel, qualifier string, kind extract.Kind) *extract.Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(src)
	if strings.HasPrefix(name, "_") {
		return nil
	}

	qualified := name
	if qualifier != "" {
		qualified = qualifier + "." + name
	}

	return &extract.Declaration{
		QualifiedName: extract.QualifyName(rel, qualified),
		Name:          qualified,
		File:          rel,
		Line:          int(node.StartPoint().Row) + 1,
		Kind:          kind,
		Doc:           bodyDocstring(node, src),
		Params:        paramNames(node, src),
		Language:      "python",
	}
}

// class builds declarations for a class and its public methods.
func (e *Extractor) class(node *sitter.Node, src []byte, rel string) []*extract.Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(src)
	if strings.HasPrefix(name, "_") {
		return nil
	}

	classDecl := &extract.Declaration{
		QualifiedName: extract.QualifyName(rel, name),
		Name:          name,
		File:          rel,
		Line:          int(node.StartPoint().Row) + 1,
		Kind:          extract.KindClass,
		Doc:           bodyDocstring(node, src),
		Language:      "python",
	}

	out := []*extract.Declaration{classDecl}

	body := node.ChildByFieldName("body")
	if body == nil {
		return out
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		var def *sitter.Node
		switch child.Type() {
		case "function_definition":
			def = child
		case "decorated_definition":
			if inner := definitionIn(child); inner != nil && inner.Type() == "function_definition" {
				def = inner
			}
		}
		if def == nil {
			continue
		}
		if method := e.function(def, src, rel, name, extract.KindMethod); method != nil {
			out = append(out, method)
		}
	}
	return out
}

// bodyDocstring extracts the docstring (first string expression of the
// body), trimmed of quotes and surrounding whitespace.
func bodyDocstring(node *sitter.Node, src []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}

	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}

	expr := first.NamedChild(0)
	if expr.Type() != "string" {
		return ""
	}

	raw := expr.Content(src)
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, quote) && strings.HasSuffix(raw, quote) && len(raw) >= 2*len(quote) {
			raw = strings.TrimPrefix(raw, quote)
			raw = strings.TrimSuffix(raw, quote)
			break
		}
	}
	return strings.TrimSpace(raw)
}

// paramNames collects parameter names, skipping self and cls.
func paramNames(node *sitter.Node, src []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		var name string
		switch child.Type() {
		case "identifier":
			name = child.Content(src)
		case "typed_parameter", "typed_default_parameter", "default_parameter":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); inner.Type() == "identifier" {
					name = inner.Content(src)
					break
				}
			}
		}
		if name == "" || name == "self" || name == "cls" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// definitionIn finds the def or class node inside a decorated_definition.
func definitionIn(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition", "class_definition":
			return child
		}
	}
	return nil
}

// isRouteHandler reports whether any decorator looks like an HTTP route
// registration.
func isRouteHandler(decorated *sitter.Node, src []byte) bool {
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if routeDecorator.MatchString(strings.TrimSpace(child.Content(src))) {
			return true
		}
	}
	return false
}
