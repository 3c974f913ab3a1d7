package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/turtacn/SakuraScope/pkg/errors"
)

// DefaultMaxBodySize caps request bodies when the handler is not configured
// with a limit.
const DefaultMaxBodySize int64 = 4 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps an error to its HTTP status via the error code table.
// Internal failures are masked.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status == http.StatusInternalServerError {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	resp := ErrorResponse{Code: string(code), Message: errors.DefaultMessageForCode(code)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body of at most limit bytes into dst. Unknown
// fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.GetCode(err) != errors.CodeUnknown {
			return err
		}
		if stderrors.Is(err, io.EOF) {
			return errors.InvalidParam("request body is empty")
		}
		return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body")
	}
	return nil
}

//Personal.AI order the ending
