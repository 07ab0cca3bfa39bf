package config

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of level files.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Level{})
}
