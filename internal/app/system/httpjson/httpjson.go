// Package httpjson is the JSON edge of the API: request decoding,
// the response envelope, and the mapping from apperr kinds to HTTP
// statuses. Handlers call these helpers and nothing else writes to the
// ResponseWriter.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
)

// Envelope is the response shape every endpoint returns:
// {code, message, data?, pagination?}.
type Envelope struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// Respond writes data under a success envelope.
func Respond(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// RespondPage writes a paginated list response.
func RespondPage(w http.ResponseWriter, message string, data, pagination interface{}) {
	write(w, http.StatusOK, Envelope{Code: http.StatusOK, Message: message, Data: data, Pagination: pagination})
}

// Error maps err's kind to a status and writes the error envelope.
// Unclassified errors respond as 500 with a generic message.
func Error(w http.ResponseWriter, err error) {
	status := apperr.KindOf(err).HTTPStatus()
	write(w, status, Envelope{Code: status, Message: apperr.Message(err)})
}

// ErrorData writes an error envelope carrying extra data, such as the
// original used_at of an already-used ticket.
func ErrorData(w http.ResponseWriter, err error, data interface{}) {
	status := apperr.KindOf(err).HTTPStatus()
	write(w, status, Envelope{Code: status, Message: apperr.Message(err), Data: data})
}

// maxBodyBytes bounds request bodies; the API carries no uploads, only
// metadata and references.
const maxBodyBytes = 1 << 20

// Decode reads the request body into dst, rejecting unknown fields and
// trailing garbage. Failures are apperr.InvalidArgument.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, err, "invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.New(apperr.InvalidArgument, "invalid request body")
	}
	return nil
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
