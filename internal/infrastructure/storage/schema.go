package storage

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/crisislab/revq/internal/domain/review"
)

// Structural schemas for the stored collections. Loading validates the
// raw bytes against these before unmarshalling, so a truncated write or
// hand-edit surfaces as corruption instead of a half-loaded session.
// Label membership is checked later against the configured set; the
// schemas only pin shapes and ranges.

const queueSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["revision", "records"],
  "properties": {
    "revision": { "type": "integer", "minimum": 0 },
    "records": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "text", "confidence"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "title": { "type": "string" },
          "text": { "type": "string", "minLength": 1 },
          "model_label": { "type": "string" },
          "confidence": { "type": "number", "minimum": 0, "maximum": 1 },
          "rationale": { "type": "string" },
          "reason": { "type": "string" }
        }
      }
    }
  }
}`

const resultsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["revision", "records"],
  "properties": {
    "revision": { "type": "integer", "minimum": 0 },
    "records": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "text", "confidence", "human_label", "reviewed_at"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "title": { "type": "string" },
          "text": { "type": "string", "minLength": 1 },
          "model_label": { "type": "string" },
          "confidence": { "type": "number", "minimum": 0, "maximum": 1 },
          "rationale": { "type": "string" },
          "reason": { "type": "string" },
          "human_label": { "type": "string" },
          "notes": { "type": "string" },
          "reviewed_at": { "type": "string" },
          "skipped": { "type": "boolean" }
        }
      }
    }
  }
}`

var (
	queueSchemaLoader   = gojsonschema.NewStringLoader(queueSchemaJSON)
	resultsSchemaLoader = gojsonschema.NewStringLoader(resultsSchemaJSON)
)

// validateShape checks raw file bytes against a schema loader. The first
// violation becomes the CorruptDataError reason.
func validateShape(schema gojsonschema.JSONLoader, data []byte, path string) error {
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schema, documentLoader)
	if err != nil {
		return &review.CorruptDataError{Path: path, Reason: "not valid JSON: " + err.Error()}
	}
	if !result.Valid() {
		return &review.CorruptDataError{Path: path, Reason: result.Errors()[0].String()}
	}
	return nil
}
