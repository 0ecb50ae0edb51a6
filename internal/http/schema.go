package http

import "github.com/xeipuuv/gojsonschema"

// batchSchema guards the multi-transaction payload before any database work
// starts: a malformed element fails the whole request up front.
const batchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["transactions"],
  "properties": {
    "transactions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["accountId", "transactionType", "amount"],
        "properties": {
          "accountId": {"type": "integer", "minimum": 1},
          "transactionType": {"type": "string", "enum": ["credit", "debit"]},
          "amount": {"type": "number", "exclusiveMinimum": 0},
          "categoryId": {"type": "integer", "minimum": 1},
          "description": {"type": "string"},
          "date": {"type": "string"},
          "tags": {"type": "array", "items": {"type": "string"}},
          "location": {"type": "array", "items": {"type": "string"}},
          "sharedWith": {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

func newBatchSchema() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(batchSchema))
}
