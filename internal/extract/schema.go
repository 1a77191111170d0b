package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Keys of the AI response payload.
const (
	KeyStartTime = "waktu_mulai"
	KeyEndTime   = "waktu_akhir"
	KeyDuration  = "durasi_jam"
	KeyEquipment = "peralatan_deskripsi"
	KeyDepth     = "interval_kedalaman"
	KeyCondition = "kondisi_hasil"
)

const timePattern = `^([01]?\d|2[0-4]):[0-5]\d$`

var requiredKeys = []string{KeyStartTime, KeyEndTime, KeyDuration, KeyEquipment, KeyDepth, KeyCondition}

// RowJSONSchema returns the JSON Schema (draft 2020-12 subset) of one parsed row.
// It is embedded in the prompt and used to validate responses.
func RowJSONSchema() map[string]any {
	text := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			KeyStartTime: map[string]any{"type": "string", "pattern": timePattern},
			KeyEndTime:   map[string]any{"type": "string", "pattern": timePattern},
			KeyDuration:  map[string]any{"type": "number", "minimum": 0},
			KeyEquipment: text,
			KeyDepth:     text,
			KeyCondition: text,
		},
		"required": requiredKeys,
	}
}

var compiledRowSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(RowJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("row.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("row.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// validateRowPayload checks a decoded payload against RowJSONSchema.
func validateRowPayload(payload map[string]any) error {
	schema, err := compiledRowSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
