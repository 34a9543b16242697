package dispatch

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema is the wire contract of the webhook payload. Every payload
// is checked against it before the POST; a violation is a construction
// failure, never a partial send.
const requestSchema = `{
  "type": "object",
  "required": ["type", "property", "client"],
  "properties": {
    "type": {
      "type": "string",
      "enum": ["viewing", "brochure"]
    },
    "property": {
      "type": "object",
      "required": ["name", "ref"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "ref": {"type": "string", "minLength": 1},
        "location": {"type": "string"},
        "price": {"type": "string"},
        "size": {"type": "string"},
        "plot": {"type": "string"},
        "bedrooms": {"type": "integer"},
        "bathrooms": {"type": "integer"},
        "description": {"type": "string"},
        "features": {"type": "array", "items": {"type": "string"}}
      }
    },
    "client": {
      "type": "object",
      "required": ["name", "email"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "email": {"type": "string", "minLength": 3},
        "phone": {"type": "string"}
      }
    },
    "viewing": {
      "type": "object",
      "required": ["date", "time", "status"],
      "properties": {
        "date": {"type": "string", "minLength": 1},
        "time": {"type": "string", "minLength": 1},
        "status": {"type": "string", "enum": ["pending_confirmation"]}
      }
    },
    "notes": {"type": "string"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(requestSchema)

// validatePayload checks the serialized request against the wire schema.
func validatePayload(body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("payload does not match wire schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
