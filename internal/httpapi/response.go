package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, msg string, statusCode int) {
	writeJSON(w, map[string]any{"erro": msg}, statusCode)
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// decodePatch is decodeJSON for partial updates. It also returns the number of
// top-level keys in the body so callers can tell "{}" from unknown fields.
func decodePatch(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return 0, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return 0, err
	}
	return len(keys), nil
}
