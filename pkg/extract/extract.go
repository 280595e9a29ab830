// Package extract defines the declaration model and the language parser
// registry. Language-specific extractors (pkg/extract/ts, pkg/extract/python)
// register themselves via init() and yield Declaration records for every
// publicly exported symbol in a source file.
package extract

import (
	"context"
	"fmt"
	"strings"
)

// Kind classifies a declaration.
type Kind string

// Declaration kinds.
const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindRoute     Kind = "route"
	KindConst     Kind = "const"
)

// Declaration is a named, publicly exported program element discovered by
// static analysis.
type Declaration struct {
	// QualifiedName uniquely identifies the declaration within a scan,
	// e.g. "src/api.ts:Client.request".
	QualifiedName string `json:"qualifiedName"`
	Name          string `json:"name"`
	File          string `json:"file"`
	Line          int    `json:"line"`
	Kind          Kind   `json:"kind"`
	// Doc is the attached description text with comment syntax stripped,
	// empty if none was found.
	Doc      string   `json:"doc,omitempty"`
	Params   []string `json:"params,omitempty"`
	Language string   `json:"language"`
}

// Location renders the declaration's source position as file:line.
func (d *Declaration) Location() string {
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}

// QualifyName builds a qualified name from a root-relative file path and a
// possibly dotted symbol name.
func QualifyName(file, name string) string {
	return file + ":" + name
}

// FileError records a per-file parse failure. Files with errors are excluded
// from the coverage denominator but do not abort the scan.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// FileResult is the outcome of extracting one source file.
type FileResult struct {
	File         string
	Language     string
	Declarations []*Declaration
	// Err is set when the file could not be parsed; Declarations is empty
	// in that case.
	Err *FileError
}

// Extractor parses one source file and yields its exported declarations.
type Extractor interface {
	// Language returns the extractor's language identifier, e.g. "typescript".
	Language() string
	// ExtractFile parses src (the contents of the file at root-relative path
	// rel) and returns the declarations found. Parse failures are reported
	// in FileResult.Err, not as an error return; the error return is for
	// infrastructure problems only.
	ExtractFile(ctx context.Context, rel string, src []byte) (*FileResult, error)
}

// DedupeDeclarations removes duplicate declarations by qualified name,
// keeping the first occurrence. Re-exports surface the same symbol more
// than once; they count only once.
func DedupeDeclarations(decls []*Declaration) []*Declaration {
	seen := make(map[string]bool, len(decls))
	out := decls[:0]
	for _, d := range decls {
		if seen[d.QualifiedName] {
			continue
		}
		seen[d.QualifiedName] = true
		out = append(out, d)
	}
	return out
}

// CleanBlockComment strips JSDoc-style comment syntax from a raw comment:
// the /** and */ delimiters and a leading "* " on each line.
func CleanBlockComment(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
