// Package skills loads and validates plugin skill definitions. A skill is a
// directory containing a SKILL.md file whose YAML frontmatter names and
// describes the skill; the markdown body holds the instructions.
package skills

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// SkillFileName is the well-known definition file inside a skill directory.
const SkillFileName = "SKILL.md"

// Skill is a parsed skill definition.
type Skill struct {
	Name        string
	Description string
	Directory   string
	// Content is the markdown body with the frontmatter removed.
	Content string
}

// Metadata is the YAML frontmatter of a SKILL.md file.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ErrMissingFrontmatter reports a SKILL.md without a parseable YAML
// frontmatter block.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// Parse parses SKILL.md content. The returned skill may have empty
// metadata fields; Load enforces the required ones.
func Parse(content []byte) (*Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "parse skill markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, ErrMissingFrontmatter
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	return &Skill{
		Name:        name,
		Description: description,
		Content:     bodyContent(string(content)),
	}, nil
}

// Load reads and parses one SKILL.md file, requiring a name and
// description in the frontmatter.
func Load(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read skill file")
	}

	skill, err := Parse(content)
	if err != nil {
		return nil, err
	}
	if skill.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if skill.Description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}
	return skill, nil
}

// bodyContent strips the YAML frontmatter block, returning the markdown
// body.
func bodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}
