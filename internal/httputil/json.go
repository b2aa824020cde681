package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// DecodeJSON reads a single JSON value into dst. An empty body leaves dst
// untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError reports err as {"detail": ...} with the status StatusFor picks.
func WriteError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusFor(err)
	logError(r, status, msg, err)
	_ = WriteJSON(w, status, ErrorBody{Detail: Message(err)})
}

// WriteDetail sends a JSON error with an explicit status and message.
func WriteDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	logError(r, status, detail, nil)
	_ = WriteJSON(w, status, ErrorBody{Detail: detail})
}
