package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"hello":"world"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	var missing *struct{ ID string }
	WriteSuccess(rec, missing)
	assert.Equal(t, "{\"data\":null}\n", rec.Body.String())
}

func TestWriteSuccessFallsBackWhenUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeInternal), decodeFailure(t, rec).Code)
}

func TestWriteErrorPresentation(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		code        pkgerrors.Code
		message     string
		withDetails bool
	}{
		{
			name:        "validation keeps message and details",
			err:         pkgerrors.New(pkgerrors.CodeValidation, "bad input").WithDetails(map[string]string{"field": "demo"}),
			status:      http.StatusBadRequest,
			code:        pkgerrors.CodeValidation,
			message:     "bad input",
			withDetails: true,
		},
		{
			name:        "conflict keeps details",
			err:         pkgerrors.New(pkgerrors.CodeConflict, "insufficient inventory").WithDetails(map[string]any{"items": []string{"sofa"}}),
			status:      http.StatusConflict,
			code:        pkgerrors.CodeConflict,
			message:     "insufficient inventory",
			withDetails: true,
		},
		{
			name:    "not found drops details",
			err:     pkgerrors.New(pkgerrors.CodeNotFound, "order missing").WithDetails("o-1"),
			status:  http.StatusNotFound,
			code:    pkgerrors.CodeNotFound,
			message: "order missing",
		},
		{
			name:    "untyped error is internal",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    pkgerrors.CodeInternal,
			message: "internal server error",
		},
		{
			name:    "wrapped typed error keeps its code",
			err:     fmt.Errorf("placing order: %w", pkgerrors.New(pkgerrors.CodeForbidden, "not yours")),
			status:  http.StatusForbidden,
			code:    pkgerrors.CodeForbidden,
			message: "not yours",
		},
		{
			name:    "dependency message is replaced",
			err:     pkgerrors.New(pkgerrors.CodeDependency, "dial tcp 10.0.0.4:5432: refused"),
			status:  http.StatusServiceUnavailable,
			code:    pkgerrors.CodeDependency,
			message: "dependency unavailable",
		},
		{
			name:    "nil error",
			err:     nil,
			status:  http.StatusInternalServerError,
			code:    pkgerrors.CodeInternal,
			message: "internal server error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), logger.Nop(), rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeFailure(t, rec)
			assert.Equal(t, string(tc.code), body.Code)
			assert.Equal(t, tc.message, body.Message)
			if tc.withDetails {
				assert.NotNil(t, body.Details)
			} else {
				assert.Nil(t, body.Details)
			}
		})
	}
}
