package entities

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// toJSON marshals v into a jsonb column value. A nil or empty value maps to
// SQL NULL rather than the string "null".
func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

// fromJSON unmarshals a jsonb column into dst, leaving dst untouched on NULL.
func fromJSON(raw datatypes.JSON, dst any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
