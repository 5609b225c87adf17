// internal/domain/homework/answer.go
package homework

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// CheckAnswer enforces the structural contract of a status endpoint payload
// and converts it into an Answer. The payload must be a keyed object holding
// a "homeworks" list and a "current_date" integer; all missing keys are
// collected before failing. Record contents are not validated here, that is
// ParseStatus's job, applied per record.
func CheckAnswer(raw json.RawMessage) (*Answer, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &SchemaError{Reason: "payload is not a keyed object"}
	}

	var missing []string
	for _, key := range []string{"homeworks", "current_date"} {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{MissingKeys: missing}
	}

	var homeworks []Homework
	if rawList := fields["homeworks"]; bytes.Equal(bytes.TrimSpace(rawList), jsonNull) {
		return nil, &SchemaError{Reason: "homeworks is not a list"}
	} else if err := json.Unmarshal(rawList, &homeworks); err != nil {
		return nil, &SchemaError{Reason: "homeworks is not a list of records"}
	}

	var currentDate int64
	if rawDate := fields["current_date"]; bytes.Equal(bytes.TrimSpace(rawDate), jsonNull) {
		return nil, &SchemaError{Reason: "current_date is not an integer"}
	} else if err := json.Unmarshal(rawDate, &currentDate); err != nil {
		return nil, &SchemaError{Reason: "current_date is not an integer"}
	}

	return &Answer{Homeworks: homeworks, CurrentDate: currentDate}, nil
}
