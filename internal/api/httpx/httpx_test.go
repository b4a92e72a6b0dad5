package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/inventory-backend/internal/api/validate"
	"github.com/baharkarakas/inventory-backend/internal/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusOf(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:         400,
		apperr.KindDuplicate:          400,
		apperr.KindInvalidToken:       400,
		apperr.KindInvalidCredentials: 401,
		apperr.KindNotActivated:       401,
		apperr.KindUnauthorized:       401,
		apperr.KindNotFound:           404,
		apperr.KindInternal:           500,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusOf(k), k.String())
	}
}

func TestWriteErr_KnownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErr(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.NotFound("Item not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "Item not found", body.Message)
	assert.Equal(t, "not_found", body.Code)
}

func TestWriteErr_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErr(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Equal(t, "internal server error", decode(t, rec).Message)
}

func TestWriteErr_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := validate.Collect(validate.Required("email", ""))
	WriteErr(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"details":[{"field":"email","msg":"required"}]`)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Email string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "a@x.com", dst.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(DecodeJSON(r, &dst)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Equal(t, "request body is required", apperr.Message(DecodeJSON(r, &dst)))
}
