// Package score computes documentation coverage over extracted declarations.
// Scoring is pure: the same declarations always produce the same report.
package score

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/extract"
)

// DefaultMinDocLength is the minimum trimmed length, in runes, a
// description needs to count as documentation. Shorter strings are
// placeholder noise.
const DefaultMinDocLength = 10

// Options tune coverage scoring.
type Options struct {
	// MinDocLength overrides DefaultMinDocLength when positive.
	MinDocLength int
	// IgnorePatterns are glob patterns matched against each declaration's
	// qualified name and bare name; matching declarations are excluded
	// from scoring entirely.
	IgnorePatterns []string
}

// FileCoverage is the coverage for a single source file.
type FileCoverage struct {
	File       string  `json:"file"`
	Total      int     `json:"total"`
	Documented int     `json:"documented"`
	Ratio      float64 `json:"ratio"`
}

// KindCoverage is the coverage for one declaration kind.
type KindCoverage struct {
	Kind       extract.Kind `json:"kind"`
	Total      int          `json:"total"`
	Documented int          `json:"documented"`
	Ratio      float64      `json:"ratio"`
}

// Report is the result of scoring a set of declarations.
type Report struct {
	Total        int     `json:"total"`
	Documented   int     `json:"documented"`
	Ratio        float64 `json:"ratio"`
	Ignored      int     `json:"ignored"`
	ByFile       []FileCoverage         `json:"byFile"`
	ByKind       []KindCoverage         `json:"byKind"`
	Undocumented []*extract.Declaration `json:"undocumented"`
}

// Scorer scores declarations against a documentation policy.
type Scorer struct {
	minDocLength int
	ignore       []glob.Glob
}

// New builds a scorer, compiling ignore patterns. Invalid patterns are
// rejected up front.
func New(opts Options) (*Scorer, error) {
	minLen := opts.MinDocLength
	if minLen <= 0 {
		minLen = DefaultMinDocLength
	}

	ignore := make([]glob.Glob, 0, len(opts.IgnorePatterns))
	for _, pattern := range opts.IgnorePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		ignore = append(ignore, g)
	}

	return &Scorer{minDocLength: minLen, ignore: ignore}, nil
}

// IsDocumented reports whether a description string counts as real
// documentation: long enough after trimming, and not a single repeated
// character.
func (s *Scorer) IsDocumented(doc string) bool {
	trimmed := strings.TrimSpace(doc)
	if utf8.RuneCountInString(trimmed) < s.minDocLength {
		return false
	}

	distinct := make(map[rune]bool)
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		distinct[r] = true
		if len(distinct) >= 2 {
			return true
		}
	}
	return false
}

// Score computes coverage over the given declarations. Scoring a set with
// no declarations yields a ratio of 1.0: nothing required, nothing missing.
func (s *Scorer) Score(decls []*extract.Declaration) *Report {
	decls = extract.DedupeDeclarations(append([]*extract.Declaration(nil), decls...))

	report := &Report{}
	byFile := make(map[string]*FileCoverage)
	byKind := make(map[extract.Kind]*KindCoverage)

	for _, d := range decls {
		if s.ignored(d) {
			report.Ignored++
			continue
		}

		documented := s.IsDocumented(d.Doc)

		report.Total++
		if documented {
			report.Documented++
		} else {
			report.Undocumented = append(report.Undocumented, d)
		}

		fc, ok := byFile[d.File]
		if !ok {
			fc = &FileCoverage{File: d.File}
			byFile[d.File] = fc
		}
		fc.Total++
		if documented {
			fc.Documented++
		}

		kc, ok := byKind[d.Kind]
		if !ok {
			kc = &KindCoverage{Kind: d.Kind}
			byKind[d.Kind] = kc
		}
		kc.Total++
		if documented {
			kc.Documented++
		}
	}

	report.Ratio = ratio(report.Documented, report.Total)

	for _, fc := range byFile {
		fc.Ratio = ratio(fc.Documented, fc.Total)
		report.ByFile = append(report.ByFile, *fc)
	}
	sort.Slice(report.ByFile, func(i, j int) bool {
		return report.ByFile[i].File < report.ByFile[j].File
	})

	for _, kc := range byKind {
		kc.Ratio = ratio(kc.Documented, kc.Total)
		report.ByKind = append(report.ByKind, *kc)
	}
	sort.Slice(report.ByKind, func(i, j int) bool {
		return report.ByKind[i].Kind < report.ByKind[j].Kind
	})

	sort.Slice(report.Undocumented, func(i, j int) bool {
		a, b := report.Undocumented[i], report.Undocumented[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.QualifiedName < b.QualifiedName
	})

	return report
}

func (s *Scorer) ignored(d *extract.Declaration) bool {
	for _, g := range s.ignore {
		if g.Match(d.QualifiedName) || g.Match(d.Name) {
			return true
		}
	}
	return false
}

func ratio(documented, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(documented) / float64(total)
}
