package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyhaven-ai/doccov/pkg/extract"
)

func newScorer(t *testing.T, opts Options) *Scorer {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func decl(file, name, doc string, kind extract.Kind) *extract.Declaration {
	return &extract.Declaration{
		QualifiedName: extract.QualifyName(file, name),
		Name:          name,
		File:          file,
		Kind:          kind,
		Doc:           doc,
	}
}

func TestIsDocumented(t *testing.T) {
	s := newScorer(t, Options{})

	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"real sentence", "Fetches a user by id.", true},
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"too short", "TODO", false},
		{"exactly at threshold", "ten chars!", true},
		{"multibyte under threshold", "好的文档", false},
		{"multibyte at threshold", "这个函数返回用户记录", true},
		{"repeated single char", "----------------", false},
		{"repeated char with spaces", "- - - - - - - -", false},
		{"two distinct chars", "ab ab ab ab ab", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.IsDocumented(tc.doc))
		})
	}
}

func TestMinDocLengthOverride(t *testing.T) {
	s := newScorer(t, Options{MinDocLength: 3})
	assert.True(t, s.IsDocumented("ok!"))
	assert.False(t, s.IsDocumented("ok"))
}

func TestScoreTwoFiles(t *testing.T) {
	s := newScorer(t, Options{})
	decls := []*extract.Declaration{
		decl("foo.ts", "documentedFn", "Formats the report header line.", extract.KindFunction),
		decl("bar.py", "bare_fn", "", extract.KindFunction),
	}

	report := s.Score(decls)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Documented)
	assert.InDelta(t, 0.5, report.Ratio, 1e-9)

	require.Len(t, report.Undocumented, 1)
	assert.Equal(t, "bar.py:bare_fn", report.Undocumented[0].QualifiedName)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "bar.py", report.ByFile[0].File)
	assert.InDelta(t, 0.0, report.ByFile[0].Ratio, 1e-9)
	assert.Equal(t, "foo.ts", report.ByFile[1].File)
	assert.InDelta(t, 1.0, report.ByFile[1].Ratio, 1e-9)
}

func TestScoreEmptyInput(t *testing.T) {
	report := newScorer(t, Options{}).Score(nil)
	assert.Equal(t, 0, report.Total)
	assert.InDelta(t, 1.0, report.Ratio, 1e-9)
	assert.Empty(t, report.Undocumented)
}

func TestScoreIdempotent(t *testing.T) {
	s := newScorer(t, Options{})
	decls := []*extract.Declaration{
		decl("a.py", "one", "Does the first thing well.", extract.KindFunction),
		decl("a.py", "two", "", extract.KindClass),
		decl("b.ts", "three", "x", extract.KindFunction),
	}

	first := s.Score(decls)
	second := s.Score(decls)
	assert.Equal(t, first, second)
}

func TestScoreDedupes(t *testing.T) {
	s := newScorer(t, Options{})
	d := decl("a.ts", "reexported", "Documented at the original site.", extract.KindFunction)
	report := s.Score([]*extract.Declaration{d, d})
	assert.Equal(t, 1, report.Total)
}

func TestIgnorePatterns(t *testing.T) {
	s := newScorer(t, Options{IgnorePatterns: []string{"test_*", "**/migrations/*"}})
	decls := []*extract.Declaration{
		decl("a.py", "test_helper", "", extract.KindFunction),
		decl("app/migrations/0001.py", "upgrade", "", extract.KindFunction),
		decl("a.py", "real_fn", "Handles the main workload.", extract.KindFunction),
	}

	report := s.Score(decls)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 2, report.Ignored)
	assert.InDelta(t, 1.0, report.Ratio, 1e-9)
}

func TestInvalidIgnorePattern(t *testing.T) {
	_, err := New(Options{IgnorePatterns: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestByKindBreakdown(t *testing.T) {
	s := newScorer(t, Options{})
	decls := []*extract.Declaration{
		decl("a.ts", "Fn", "Explains what the function does.", extract.KindFunction),
		decl("a.ts", "C", "", extract.KindClass),
		decl("b.ts", "Fn2", "", extract.KindFunction),
	}

	report := s.Score(decls)
	require.Len(t, report.ByKind, 2)
	assert.Equal(t, extract.KindClass, report.ByKind[0].Kind)
	assert.Equal(t, extract.KindFunction, report.ByKind[1].Kind)
	assert.Equal(t, 2, report.ByKind[1].Total)
	assert.Equal(t, 1, report.ByKind[1].Documented)
}
