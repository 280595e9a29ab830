package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// maxDescriptionLength bounds the frontmatter description so listings stay
// readable.
const maxDescriptionLength = 1024

// namePattern is the allowed shape of a skill name: lowercase alphanumerics
// and hyphens.
var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Severity grades a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation problem located in a skill directory.
type Finding struct {
	Skill    string   `json:"skill"`
	Path     string   `json:"path"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: [%s] %s", f.Path, f.Severity, f.Message)
}

// ValidationResult aggregates findings across a set of skills.
type ValidationResult struct {
	Checked  int       `json:"checked"`
	Findings []Finding `json:"findings,omitempty"`
}

// HasErrors reports whether any finding is an error.
func (r *ValidationResult) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateDir validates every skill directory directly under root. Each
// subdirectory must hold a SKILL.md with well-formed frontmatter.
func ValidateDir(root string) (*ValidationResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read skills directory %s", root)
	}

	result := &ValidationResult{}
	names := make(map[string]string)

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		result.Checked++

		dir := filepath.Join(root, entry.Name())
		findings := validateSkillDir(dir, entry.Name(), names)
		result.Findings = append(result.Findings, findings...)
	}

	sort.Slice(result.Findings, func(i, j int) bool {
		if result.Findings[i].Path != result.Findings[j].Path {
			return result.Findings[i].Path < result.Findings[j].Path
		}
		return result.Findings[i].Message < result.Findings[j].Message
	})
	return result, nil
}

// validateSkillDir checks one skill directory; names tracks skill names seen
// so far for duplicate detection.
func validateSkillDir(dir, dirName string, names map[string]string) []Finding {
	skillPath := filepath.Join(dir, SkillFileName)
	finding := func(severity Severity, format string, args ...any) Finding {
		return Finding{
			Skill:    dirName,
			Path:     skillPath,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		}
	}

	content, err := os.ReadFile(skillPath)
	if err != nil {
		return []Finding{finding(SeverityError, "missing %s", SkillFileName)}
	}

	skill, err := Parse(content)
	if err != nil {
		// Parse cannot tell a garbled frontmatter block from an absent
		// one; re-decode the raw block to name the YAML problem.
		if metaBlock, ok := frontmatterBlock(string(content)); ok {
			var metadata Metadata
			if yerr := yaml.Unmarshal([]byte(metaBlock), &metadata); yerr != nil {
				return []Finding{finding(SeverityError, "invalid frontmatter YAML: %v", yerr)}
			}
		}
		return []Finding{finding(SeverityError, "missing frontmatter")}
	}

	var findings []Finding

	switch {
	case skill.Name == "":
		findings = append(findings, finding(SeverityError, "frontmatter field %q is required", "name"))
	case !namePattern.MatchString(skill.Name):
		findings = append(findings, finding(SeverityError,
			"invalid name %q: must be lowercase alphanumerics and hyphens", skill.Name))
	default:
		if skill.Name != dirName {
			findings = append(findings, finding(SeverityWarning,
				"name %q does not match directory %q", skill.Name, dirName))
		}
		if prev, dup := names[skill.Name]; dup {
			findings = append(findings, finding(SeverityError,
				"duplicate skill name %q (also defined in %s)", skill.Name, prev))
		} else {
			names[skill.Name] = dirName
		}
	}

	switch {
	case skill.Description == "":
		findings = append(findings, finding(SeverityError, "frontmatter field %q is required", "description"))
	case len(skill.Description) > maxDescriptionLength:
		findings = append(findings, finding(SeverityWarning,
			"description is %d characters, expected at most %d", len(skill.Description), maxDescriptionLength))
	}

	if strings.TrimSpace(skill.Content) == "" {
		findings = append(findings, finding(SeverityWarning, "skill body is empty"))
	}

	return findings
}

// frontmatterBlock returns the YAML between the leading --- fences.
func frontmatterBlock(content string) (string, bool) {
	if !strings.HasPrefix(content, "---") {
		return "", false
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}
