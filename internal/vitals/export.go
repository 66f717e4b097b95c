package vitals

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ExportJSON renders the session's measurements as indented JSON keyed by
// vital id.
func ExportJSON(session *Session) ([]byte, error) {
	data, err := json.MarshalIndent(session.Measurements, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("vitals: export json: %w", err)
	}
	return data, nil
}

// ExportCSV renders the session's measurements as CSV, one row per vital,
// ordered by vital id.
func ExportCSV(session *Session) ([]byte, error) {
	ids := make([]string, 0, session.Len())
	for id := range session.Measurements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"vital_id", "display_name", "value", "unit", "status", "category", "captured_at"}); err != nil {
		return nil, fmt.Errorf("vitals: export csv: %w", err)
	}
	for _, id := range ids {
		m := session.Measurements[id]
		record := []string{
			m.DefinitionID,
			m.Name,
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			m.Unit,
			string(m.Status),
			string(m.Category),
			m.CapturedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("vitals: export csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("vitals: export csv: %w", err)
	}
	return buf.Bytes(), nil
}
