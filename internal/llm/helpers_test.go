package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// notesSchema mirrors the shape of the review notes the app requests.
var notesSchema = &Schema{
	Name: "test-notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"key_concepts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"title", "key_concepts"},
		"additionalProperties": false,
	},
}

const notesJSON = `{"title":"Kinematics refresher","key_concepts":["velocity vs speed","free fall"]}`

func reviewRequest(schema *Schema) Request {
	return Request{
		System:    "You write short study notes for admission test candidates.",
		Messages:  []Message{{Role: RoleUser, Content: "Subject: Physics\nLevel: Easy\nRecent Results: fail"}},
		Schema:    schema,
		MaxTokens: 512,
	}
}

// serveJSON starts a server that answers every request with status and body
// and returns its URL.
func serveJSON(t *testing.T, status int, body any, header http.Header) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
