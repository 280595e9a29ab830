// Package manifest loads and validates plugin manifest files. A plugin
// directory carries a plugin.json describing the plugin and the resources
// it ships (commands, agents, skills, hooks).
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// FileName is the manifest file inside the manifest directory.
	FileName = "plugin.json"
	// DirName is the hidden directory holding the manifest within a
	// plugin.
	DirName = ".claude-plugin"
)

// versionPattern accepts semver-style versions like 1.2.3 or 0.4.0-beta.1.
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

// Author identifies who maintains a plugin. The manifest requires an
// object here; a bare string is a validation error.
type Author struct {
	Name  string `json:"name" jsonschema:"required"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Manifest is the plugin.json document.
type Manifest struct {
	Name        string   `json:"name" jsonschema:"required"`
	Version     string   `json:"version" jsonschema:"required"`
	Description string   `json:"description" jsonschema:"required"`
	License     string   `json:"license" jsonschema:"required"`
	Category    string   `json:"category" jsonschema:"required"`
	Author      *Author  `json:"author" jsonschema:"required"`
	Homepage    string   `json:"homepage,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Commands    []string `json:"commands,omitempty"`
	Agents      []string `json:"agents,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Hooks       []string `json:"hooks,omitempty"`
}

// rawManifest defers author decoding so an author given as a string can be
// reported as a shape problem instead of a JSON type error.
type rawManifest struct {
	Manifest
	Author json.RawMessage `json:"author"`
}

// Path returns the manifest path for a plugin directory.
func Path(pluginDir string) string {
	return filepath.Join(pluginDir, DirName, FileName)
}

// Issue is one manifest validation problem.
type Issue struct {
	Plugin  string `json:"plugin"`
	Message string `json:"message"`
}

// Result is the outcome of validating one manifest.
type Result struct {
	Plugin   string    `json:"plugin"`
	Manifest *Manifest `json:"manifest,omitempty"`
	Issues   []Issue   `json:"issues,omitempty"`
}

// Valid reports whether the manifest had no issues.
func (r *Result) Valid() bool {
	return len(r.Issues) == 0
}

// parseManifest decodes manifest JSON, returning the manifest with the
// author still raw so callers can check its shape.
func parseManifest(data []byte) (Manifest, json.RawMessage, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return Manifest{}, nil, err
	}
	return raw.Manifest, raw.Author, nil
}

// Load parses a manifest file without validating it. An author in a
// non-object shape is left nil.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}

	m, rawAuthor, err := parseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", path)
	}

	var author Author
	if len(rawAuthor) > 0 && string(rawAuthor) != "null" && json.Unmarshal(rawAuthor, &author) == nil {
		m.Author = &author
	}
	return &m, nil
}

// ValidatePlugin validates the manifest of one plugin directory.
func ValidatePlugin(pluginDir string) *Result {
	plugin := filepath.Base(pluginDir)
	result := &Result{Plugin: plugin}
	issue := func(format string, args ...any) {
		result.Issues = append(result.Issues, Issue{
			Plugin:  plugin,
			Message: errors.Errorf(format, args...).Error(),
		})
	}

	path := Path(pluginDir)
	data, err := os.ReadFile(path)
	if err != nil {
		issue("missing %s", filepath.Join(DirName, FileName))
		return result
	}

	m, rawAuthor, err := parseManifest(data)
	if err != nil {
		issue("invalid JSON: %v", err)
		return result
	}

	for field, value := range map[string]string{
		"name":        m.Name,
		"version":     m.Version,
		"description": m.Description,
		"license":     m.License,
		"category":    m.Category,
	} {
		if value == "" {
			issue("missing %q field", field)
		}
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		issue("invalid version %q: expected semantic version", m.Version)
	}

	m.Author = decodeAuthor(rawAuthor, issue)

	result.Manifest = &m
	return result
}

// decodeAuthor enforces the author-is-an-object rule.
func decodeAuthor(raw json.RawMessage, issue func(string, ...any)) *Author {
	if len(raw) == 0 || string(raw) == "null" {
		issue("missing %q field", "author")
		return nil
	}

	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		issue("%q should be an object, not a string", "author")
		return nil
	}

	var author Author
	if err := json.Unmarshal(raw, &author); err != nil {
		issue("invalid %q field: %v", "author", err)
		return nil
	}
	if author.Name == "" {
		issue("author is missing %q", "name")
	}
	return &author
}

// ValidateAll validates every plugin directory directly under root, sorted
// by name.
func ValidateAll(root string) ([]*Result, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read plugins directory %s", root)
	}

	var results []*Result
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		results = append(results, ValidatePlugin(filepath.Join(root, entry.Name())))
	}
	return results, nil
}
