package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/regionplan/logging"
)

// Read reads a level from the given file, substituting ${VAR} references from the environment.
func Read(filePath string, logger logging.Logger) (*Level, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a level from the given reader and specifies
// where, if applicable, the file the reader originated from. Level files are JSON5, so comments
// and trailing commas are allowed; unknown fields are not.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Level, error) {
	canonical, err := canonicalJSON(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode level from json")
	}

	level := Level{ConfigFilePath: originalPath}
	decoder := json.NewDecoder(bytes.NewReader(canonical))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&level); err != nil {
		return nil, errors.Wrapf(err, "failed to decode level from json")
	}
	if err := level.Validate(); err != nil {
		return nil, errors.Wrapf(err, "failed to validate level %q", originalPath)
	}
	logger.Debugw("read level", "path", originalPath, "name", level.Name,
		"boxes", len(level.Boxes), "portals", len(level.Portals), "platforms", len(level.Platforms))
	return &level, nil
}

// canonicalJSON parses JSON5 and re-encodes it as plain JSON for the strict decoder.
func canonicalJSON(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, io.EOF
	}
	var doc interface{}
	if err := json5.Unmarshal(buf, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
