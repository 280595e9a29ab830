package ts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyhaven-ai/doccov/pkg/extract"
)

func extractNamed(t *testing.T, rel, src string) *extract.FileResult {
	t.Helper()
	result, err := New().ExtractFile(context.Background(), rel, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func byName(decls []*extract.Declaration, name string) *extract.Declaration {
	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func TestExportedFunctionWithJSDoc(t *testing.T) {
	src := `/**
 * Formats a user's display name.
 */
export function formatName(first: string, last: string): string {
  return first + " " + last;
}

function helper() {}
`
	result := extractNamed(t, "src/format.ts", src)
	require.Nil(t, result.Err)
	require.Len(t, result.Declarations, 1)

	decl := result.Declarations[0]
	assert.Equal(t, "formatName", decl.Name)
	assert.Equal(t, extract.KindFunction, decl.Kind)
	assert.Equal(t, "Formats a user's display name.", decl.Doc)
	assert.Equal(t, []string{"first", "last"}, decl.Params)
	assert.Equal(t, 4, decl.Line)
	assert.Equal(t, "src/format.ts:formatName", decl.QualifiedName)
	assert.Equal(t, "typescript", decl.Language)
}

func TestExportedClassAndMethods(t *testing.T) {
	src := `/** Caches parsed templates. */
export class TemplateCache {
  constructor() {}

  /** Returns a cached template or null. */
  get(key: string) {
    return null;
  }

  private evict() {}

  #sweep() {}
}
`
	result := extractNamed(t, "src/cache.ts", src)
	require.Nil(t, result.Err)

	cls := byName(result.Declarations, "TemplateCache")
	require.NotNil(t, cls)
	assert.Equal(t, extract.KindClass, cls.Kind)
	assert.Equal(t, "Caches parsed templates.", cls.Doc)

	get := byName(result.Declarations, "TemplateCache.get")
	require.NotNil(t, get)
	assert.Equal(t, extract.KindMethod, get.Kind)
	assert.Equal(t, "Returns a cached template or null.", get.Doc)

	assert.Nil(t, byName(result.Declarations, "TemplateCache.constructor"))
	assert.Nil(t, byName(result.Declarations, "TemplateCache.evict"))
	assert.Nil(t, byName(result.Declarations, "TemplateCache.#sweep"))
}

func TestInterfaceTypeEnum(t *testing.T) {
	src := `/** Options accepted by the scanner. */
export interface ScanOptions {
  root: string;
}

export type Level = "info" | "warn";

export enum Mode {
  Fast,
  Full,
}
`
	result := extractNamed(t, "src/types.ts", src)
	require.Nil(t, result.Err)

	iface := byName(result.Declarations, "ScanOptions")
	require.NotNil(t, iface)
	assert.Equal(t, extract.KindInterface, iface.Kind)
	assert.Equal(t, "Options accepted by the scanner.", iface.Doc)

	alias := byName(result.Declarations, "Level")
	require.NotNil(t, alias)
	assert.Equal(t, extract.KindType, alias.Kind)
	assert.Empty(t, alias.Doc)

	enum := byName(result.Declarations, "Mode")
	require.NotNil(t, enum)
	assert.Equal(t, extract.KindEnum, enum.Kind)
}

func TestArrowFunctionsAndConsts(t *testing.T) {
	src := `/**
 * Parses a semver string.
 */
export const parseVersion = (raw: string) => raw.split(".");

export const DEFAULT_TIMEOUT = 30;

export const { a, b } = pair();
`
	result := extractNamed(t, "src/util.ts", src)
	require.Nil(t, result.Err)

	parse := byName(result.Declarations, "parseVersion")
	require.NotNil(t, parse)
	assert.Equal(t, extract.KindFunction, parse.Kind)
	assert.Equal(t, "Parses a semver string.", parse.Doc)
	assert.Equal(t, []string{"raw"}, parse.Params)

	timeout := byName(result.Declarations, "DEFAULT_TIMEOUT")
	require.NotNil(t, timeout)
	assert.Equal(t, extract.KindConst, timeout.Kind)

	assert.Nil(t, byName(result.Declarations, "a"), "destructuring patterns skipped")
}

func TestLineCommentIsNotDoc(t *testing.T) {
	src := `// not a JSDoc block
export function plain() {}
`
	result := extractNamed(t, "src/plain.ts", src)
	decl := byName(result.Declarations, "plain")
	require.NotNil(t, decl)
	assert.Empty(t, decl.Doc)
}

func TestJavaScriptFile(t *testing.T) {
	src := `/** Adds two numbers. */
export function add(a, b) {
  return a + b;
}
`
	result := extractNamed(t, "lib/math.js", src)
	require.Nil(t, result.Err)
	require.Len(t, result.Declarations, 1)
	assert.Equal(t, "javascript", result.Declarations[0].Language)
	assert.Equal(t, "Adds two numbers.", result.Declarations[0].Doc)
}

func TestBareReExportIgnored(t *testing.T) {
	result := extractNamed(t, "src/index.ts", `export { add } from "./math";`+"\n")
	require.Nil(t, result.Err)
	assert.Empty(t, result.Declarations)
}

func TestSyntaxErrorReported(t *testing.T) {
	result := extractNamed(t, "src/broken.ts", "export function oops( {\n")
	require.NotNil(t, result.Err)
	assert.Equal(t, "src/broken.ts", result.Err.File)
	assert.Contains(t, result.Err.Error(), "syntax error")
	assert.Empty(t, result.Declarations)
}

func TestRegistryRegistration(t *testing.T) {
	for _, ext := range Extensions {
		lang, ok := extract.DefaultRegistry.LanguageForExtension(ext)
		require.True(t, ok, ext)
		assert.Equal(t, "typescript", lang)
	}
}
