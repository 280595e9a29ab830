package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, dir, content string) {
	t.Helper()
	skillDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, SkillFileName), []byte(content), 0o644))
}

const validSkill = `---
name: code-review
description: Reviews pull requests for style and correctness.
---

# Code Review

Steps to review a change.
`

func TestLoadValidSkill(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "code-review", validSkill)

	skill, err := Load(filepath.Join(root, "code-review", SkillFileName))
	require.NoError(t, err)
	assert.Equal(t, "code-review", skill.Name)
	assert.Equal(t, "Reviews pull requests for style and correctness.", skill.Description)
	assert.Contains(t, skill.Content, "# Code Review")
	assert.NotContains(t, skill.Content, "name: code-review")
}

func TestParse(t *testing.T) {
	skill, err := Parse([]byte(validSkill))
	require.NoError(t, err)
	assert.Equal(t, "code-review", skill.Name)
	assert.Equal(t, "Reviews pull requests for style and correctness.", skill.Description)
	assert.Contains(t, skill.Content, "Steps to review a change.")
}

func TestParseMissingFrontmatter(t *testing.T) {
	_, err := Parse([]byte("# Just a heading\n"))
	assert.ErrorIs(t, err, ErrMissingFrontmatter)
}

func TestParseIncompleteMetadata(t *testing.T) {
	skill, err := Parse([]byte("---\nname: partial\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, "partial", skill.Name)
	assert.Empty(t, skill.Description)
}

func TestLoadMissingFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "bare", "# Just a heading\n")

	_, err := Load(filepath.Join(root, "bare", SkillFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing frontmatter")
}

func TestValidateDirAllValid(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "code-review", validSkill)

	result, err := ValidateDir(root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Empty(t, result.Findings)
	assert.False(t, result.HasErrors())
}

func TestValidateDirExtraFrontmatterFields(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "with-extras", `---
name: with-extras
description: Carries fields beyond the required pair.
version: 1.2.0
tags:
  - review
  - style
---

Instructions here.
`)

	result, err := ValidateDir(root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Empty(t, result.Findings)
}

func TestValidateDirFindings(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "Bad_Name", `---
name: Bad_Name
description: Has an invalid name.
---
body
`)
	writeSkill(t, root, "no-description", `---
name: no-description
---
body
`)
	writeSkill(t, root, "renamed", `---
name: other-name
description: Name does not match the directory.
---
body
`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755))

	result, err := ValidateDir(root)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Checked)
	assert.True(t, result.HasErrors())

	messages := make([]string, 0, len(result.Findings))
	for _, f := range result.Findings {
		messages = append(messages, f.Message)
	}
	assert.Contains(t, messages, `invalid name "Bad_Name": must be lowercase alphanumerics and hyphens`)
	assert.Contains(t, messages, `frontmatter field "description" is required`)
	assert.Contains(t, messages, `name "other-name" does not match directory "renamed"`)
	assert.Contains(t, messages, "missing SKILL.md")
}

func TestValidateDirDuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "alpha", `---
name: shared
description: First holder of the name.
---
body
`)
	writeSkill(t, root, "beta", `---
name: shared
description: Second holder of the name.
---
body
`)

	result, err := ValidateDir(root)
	require.NoError(t, err)
	require.True(t, result.HasErrors())

	var dup bool
	for _, f := range result.Findings {
		if f.Severity == SeverityError && f.Message == `duplicate skill name "shared" (also defined in alpha)` {
			dup = true
		}
	}
	assert.True(t, dup)
}

func TestValidateDirMissingRoot(t *testing.T) {
	_, err := ValidateDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestValidateDirInvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "broken", "---\nname: [unclosed\n---\nbody\n")

	result, err := ValidateDir(root)
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, SeverityError, result.Findings[0].Severity)
	assert.Contains(t, result.Findings[0].Message, "invalid frontmatter YAML")
}
