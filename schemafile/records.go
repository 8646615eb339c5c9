package schemafile

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/reoring/structus"
)

// Record is the outcome of constructing one decoded record.
type Record struct {
	Index    int
	Instance *structus.Instance
	Err      error
}

// DecodeRecords decodes a JSON array of objects, or a single object, and
// constructs one instance of s per object with FromJSON. Construction
// failures are reported per record; the returned error covers malformed
// input only.
func DecodeRecords(s *structus.Schema, data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	var raws []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("schemafile: records: %w", err)
		}
	} else {
		raws = []json.RawMessage{data}
	}
	out := make([]Record, len(raws))
	for i, raw := range raws {
		inst, err := s.FromJSON(raw)
		out[i] = Record{Index: i, Instance: inst, Err: err}
	}
	return out, nil
}
