// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/thor"
)

var logger = log.WithContext("pkg", "api-utils")

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// Unauthorized convenience method to create http unauthorized error.
func Unauthorized(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusUnauthorized,
	}
}

// ErrorResponse is the body of a failed operation.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// revertStatus maps a revert kind to the http status it is reported with.
func revertStatus(code string) int {
	switch code {
	case reverts.ErrAccountNotInitialized.Code():
		return http.StatusNotFound
	case reverts.ErrInvalidAuthority.Code(), reverts.ErrConstraintRaw.Code(), reverts.ErrInvalidCall.Code():
		return http.StatusForbidden
	case reverts.ErrAlreadyExists.Code(), reverts.ErrAlreadyUnstaked.Code():
		return http.StatusConflict
	case reverts.ErrStatusNotPending.Code(), reverts.ErrSelectedButCantTransfer.Code(),
		reverts.ErrCapExceeded.Code(), reverts.ErrInsufficientFunds.Code():
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// a revert is responded as ErrorResponse with a 4xx status,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if rev, ok := reverts.AsRevert(err); ok {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(revertStatus(rev.Code()))
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: rev.Code(), Message: rev.Message()})
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		logger.Debug("internal error", "uri", r.RequestURI, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any

// UUIDVar parses a uuid route variable.
func UUIDVar(r *http.Request, name string) (thor.UUID, error) {
	id, err := thor.ParseUUID(mux.Vars(r)[name])
	if err != nil {
		return thor.UUID{}, BadRequest(errors.WithMessage(err, name))
	}
	return id, nil
}

// AddressVar parses an address route variable.
func AddressVar(r *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Query parses an optional uint64 query parameter.
func Uint64Query(r *http.Request, name string, def uint64) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
