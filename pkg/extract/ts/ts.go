// Package ts extracts exported declarations from TypeScript and JavaScript
// sources using tree-sitter. A declaration is exported when it is part of an
// `export` statement; its description is the nearest preceding JSDoc block.
package ts

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/greyhaven-ai/doccov/pkg/extract"
)

// Extensions handled by this extractor.
var Extensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

func init() {
	extract.DefaultRegistry.Register("typescript", Extensions, func() extract.Extractor {
		return New()
	})
}

// Extractor extracts exported declarations from TypeScript/JavaScript files.
type Extractor struct{}

// New creates a TypeScript/JavaScript extractor.
func New() *Extractor {
	return &Extractor{}
}

// Language returns the extractor's language identifier.
func (e *Extractor) Language() string {
	return "typescript"
}

// ExtractFile parses one source file and returns its exported declarations.
// Syntax errors are reported per file via FileResult.Err and do not abort
// the scan.
func (e *Extractor) ExtractFile(ctx context.Context, rel string, src []byte) (*extract.FileResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammarFor(rel))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &extract.FileResult{File: rel, Language: detectLanguage(rel)}

	root := tree.RootNode()
	if root.HasError() {
		result.Err = &extract.FileError{File: rel, Message: "syntax error"}
		return result, nil
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "export_statement" {
			continue
		}

		doc := precedingDoc(child, src)
		decls := e.extractExport(child, src, rel, doc)
		result.Declarations = append(result.Declarations, decls...)
	}

	result.Declarations = extract.DedupeDeclarations(result.Declarations)
	return result, nil
}

// extractExport handles a single top-level export statement.
func (e *Extractor) extractExport(node *sitter.Node, src []byte, rel, doc string) []*extract.Declaration {
	lang := detectLanguage(rel)

	decl := node.ChildByFieldName("declaration")
	if decl == nil {
		// Bare re-export (`export { foo } from './x'`): the symbol is
		// declared elsewhere; deduplication handles the original.
		return nil
	}

	switch decl.Type() {
	case "function_declaration", "generator_function_declaration":
		d := e.named(decl, src, rel, lang, extract.KindFunction, doc, "")
		if d != nil {
			d.Params = paramNames(decl, src)
			return []*extract.Declaration{d}
		}
		return nil

	case "class_declaration":
		d := e.named(decl, src, rel, lang, extract.KindClass, doc, "")
		if d == nil {
			return nil
		}
		out := []*extract.Declaration{d}
		out = append(out, e.classMethods(decl, src, rel, lang, d.Name)...)
		return out

	case "interface_declaration":
		if d := e.named(decl, src, rel, lang, extract.KindInterface, doc, ""); d != nil {
			return []*extract.Declaration{d}
		}
		return nil

	case "type_alias_declaration":
		if d := e.named(decl, src, rel, lang, extract.KindType, doc, ""); d != nil {
			return []*extract.Declaration{d}
		}
		return nil

	case "enum_declaration":
		if d := e.named(decl, src, rel, lang, extract.KindEnum, doc, ""); d != nil {
			return []*extract.Declaration{d}
		}
		return nil

	case "lexical_declaration", "variable_declaration":
		return e.variables(decl, src, rel, lang, doc)
	}

	return nil
}

// named builds a declaration from a node with a name field. Anonymous
// declarations (e.g. `export default function () {}`) are skipped.
func (e *Extractor) named(node *sitter.Node, src []byte, rel, lang string, kind extract.Kind, doc, qualifier string) *extract.Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(src)

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
		Doc:           doc,
		Language:      lang,
	}
}

// classMethods extracts the public methods of an exported class.
func (e *Extractor) classMethods(classNode *sitter.Node, src []byte, rel, lang, className string) []*extract.Declaration {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var methods []*extract.Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "method_definition" {
			continue
		}

		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(src)
		if name == "constructor" || strings.HasPrefix(name, "#") {
			continue
		}
		if hasNonPublicModifier(child, src) {
			continue
		}

		doc := precedingDoc(child, src)
		d := &extract.Declaration{
			QualifiedName: extract.QualifyName(rel, className+"."+name),
			Name:          className + "." + name,
			File:          rel,
			Line:          int(child.StartPoint().Row) + 1,
			Kind:          extract.KindMethod,
			Doc:           doc,
			Params:        paramNames(child, src),
			Language:      lang,
		}
		methods = append(methods, d)
	}
	return methods
}

// variables extracts exported const/let/var declarators. Arrow functions
// count as functions; everything else counts as a const.
func (e *Extractor) variables(node *sitter.Node, src []byte, rel, lang, doc string) []*extract.Declaration {
	var out []*extract.Declaration

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		nameNode := child.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			// Destructuring patterns have no single name to report.
			continue
		}
		name := nameNode.Content(src)

		kind := extract.KindConst
		var params []string
		if value := child.ChildByFieldName("value"); value != nil {
			if value.Type() == "arrow_function" || value.Type() == "function_expression" || value.Type() == "function" {
				kind = extract.KindFunction
				params = paramNames(value, src)
			}
		}

		out = append(out, &extract.Declaration{
			QualifiedName: extract.QualifyName(rel, name),
			Name:          name,
			File:          rel,
			Line:          int(child.StartPoint().Row) + 1,
			Kind:          kind,
			Doc:           doc,
			Params:        params,
			Language:      lang,
		})
	}
	return out
}

// precedingDoc returns the cleaned text of the JSDoc block immediately
// preceding a node, or empty string.
func precedingDoc(node *sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}

	raw := prev.Content(src)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return extract.CleanBlockComment(raw)
}

// paramNames collects the parameter names of a function-like node.
func paramNames(node *sitter.Node, src []byte) []string {
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		child := paramsNode.NamedChild(i)
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				names = append(names, pattern.Content(src))
			}
		case "identifier":
			names = append(names, child.Content(src))
		}
	}
	return names
}

// hasNonPublicModifier reports whether a method carries a private or
// protected accessibility modifier.
func hasNonPublicModifier(node *sitter.Node, src []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "accessibility_modifier" {
			text := child.Content(src)
			if text == "private" || text == "protected" {
				return true
			}
		}
	}
	return false
}

func detectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	default:
		return "typescript"
	}
}

func grammarFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}
