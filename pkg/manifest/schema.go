package manifest

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema generates the JSON Schema for plugin manifests, suitable for
// editor integration and external validators.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	schema := reflector.Reflect(&Manifest{})
	schema.Title = "Plugin Manifest"
	schema.Description = "Describes a plugin and the resources it ships."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal manifest schema")
	}
	return data, nil
}
