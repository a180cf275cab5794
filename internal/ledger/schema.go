package ledger

import "github.com/santhosh-tekuri/jsonschema/v5"

// ledgerSchemaJSON is the structural contract a persisted ledger must meet.
// Unknown fields are deliberately not rejected (forward compatibility);
// missing required fields or an unknown status make the ledger corrupt.
const ledgerSchemaJSON = `{
  "type": "object",
  "required": ["chapters"],
  "properties": {
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["index", "changes"],
        "properties": {
          "index": {"type": "integer", "minimum": 0},
          "title": {"type": "string"},
          "changes": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "original", "candidate", "status"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "original": {"type": "string"},
                "candidate": {"type": "string"},
                "status": {"enum": ["pending", "accepted", "rejected"]}
              }
            }
          }
        }
      }
    }
  }
}`

var ledgerSchema = jsonschema.MustCompileString("bookwash-ledger.schema.json", ledgerSchemaJSON)
