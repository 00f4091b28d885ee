package tiled

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schema/tileset.json
	tilesetSchemaJSON string
	//go:embed schema/map.json
	mapSchemaJSON string

	tilesetSchema = jsonschema.MustCompileString("tileset.json", tilesetSchemaJSON)
	mapSchema     = jsonschema.MustCompileString("map.json", mapSchemaJSON)
)

// ValidateTileset checks a raw tileset document against the embedded schema.
func ValidateTileset(data []byte) error {
	return validate(tilesetSchema, data)
}

// ValidateMap checks a raw map document against the embedded schema.
func ValidateMap(data []byte) error {
	return validate(mapSchema, data)
}

func validate(s *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
