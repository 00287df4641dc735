package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

// maxBodySize bounds request bodies other than imports.
const maxBodySize = 1 << 20

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, errors.HTTPStatus(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// decode reads a JSON body into v. Malformed bodies are INVALID_INPUT.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
