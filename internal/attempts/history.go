package attempts

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// HistoryItem is one attempt-history object as served by the backend.
// Every field may be null or missing.
type HistoryItem struct {
	Subject        *string `json:"subject"`
	Level          *string `json:"level"`
	Result         *string `json:"result"`
	AttemptsEasy   *int    `json:"attempts_easy"`
	AttemptsMedium *int    `json:"attempts_medium"`
	AttemptsHard   *int    `json:"attempts_hard"`
	CreatedAt      *string `json:"created_at"`
}

// timestamp layouts accepted for created_at, most specific first.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DecodeHistory reads a JSON array of history items and normalizes them.
func DecodeHistory(r io.Reader) ([]Record, error) {
	var items []HistoryItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode attempt history: %w", err)
	}
	return FromHistory(items), nil
}

// FromHistory converts wire items into records. Input order is preserved and
// used as the Sequence so that ties on CreatedAt keep their arrival order.
func FromHistory(items []HistoryItem) []Record {
	out := make([]Record, 0, len(items))
	for i, it := range items {
		out = append(out, Record{
			Subject:        NormalizeSubject(deref(it.Subject)),
			Level:          Level(normalizeEnum(deref(it.Level))),
			Result:         Result(normalizeEnum(deref(it.Result))),
			AttemptsEasy:   counter(it.AttemptsEasy),
			AttemptsMedium: counter(it.AttemptsMedium),
			AttemptsHard:   counter(it.AttemptsHard),
			Sequence:       int64(i + 1),
			CreatedAt:      parseCreatedAt(deref(it.CreatedAt)),
		})
	}
	return out
}

// ToHistory converts records back to the wire shape.
func ToHistory(records []Record) []HistoryItem {
	out := make([]HistoryItem, 0, len(records))
	for _, r := range records {
		subject := string(r.Subject)
		level := string(r.Level)
		result := string(r.Result)
		easy, medium, hard := r.AttemptsEasy, r.AttemptsMedium, r.AttemptsHard
		item := HistoryItem{
			Subject:        &subject,
			Level:          &level,
			Result:         &result,
			AttemptsEasy:   &easy,
			AttemptsMedium: &medium,
			AttemptsHard:   &hard,
		}
		if !r.CreatedAt.IsZero() {
			ts := r.CreatedAt.UTC().Format(time.RFC3339Nano)
			item.CreatedAt = &ts
		}
		out = append(out, item)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func counter(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}

func parseCreatedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
