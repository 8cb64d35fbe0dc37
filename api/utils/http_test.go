// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin/reverts"
)

func serve(f HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	WrapHandlerFunc(f)(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestWrapHandlerFunc(t *testing.T) {
	rr := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return errors.WithMessage(reverts.ErrCapExceeded.Withf("too much"), "stake")
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{Error: "CapExceeded", Message: "too much"}, resp)

	for err, status := range map[error]int{
		reverts.ErrAccountNotInitialized: http.StatusNotFound,
		reverts.ErrInvalidAuthority:      http.StatusForbidden,
		reverts.ErrAlreadyUnstaked:       http.StatusConflict,
		reverts.ErrInvalidAmount:         http.StatusBadRequest,
		BadRequest(errors.New("bad")):    http.StatusBadRequest,
		errors.New("boom"):               http.StatusInternalServerError,
	} {
		assert.Equal(t, status, serve(func(http.ResponseWriter, *http.Request) error { return err }).Code, err.Error())
	}

	rr = serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
}
