package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Success is the body of every successful RPC: {"data": ...}. A nil result is
// encoded as null.
type Success struct {
	Data any `json:"data"`
}

// Failure is the body of every failed RPC: {"error": {...}}.
type Failure struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var encodeFailure = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}` + "\n")

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Success{Data: data})
}

// WriteError maps err onto its public code and status. Messages of internal
// and dependency failures are replaced by the generic text for the code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := typed.Code().Meta()

	body := ErrorBody{Code: string(typed.Code()), Message: meta.PublicMessage}
	if meta.HTTPStatus < http.StatusInternalServerError && typed.Message() != "" {
		body.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil {
		logFailure(ctx, logg, meta.HTTPStatus, err)
	}
	writeJSON(w, meta.HTTPStatus, Failure{Error: body})
}

// logFailure reports server faults with the full chain. Client errors are
// routine and only surface at debug level.
func logFailure(ctx context.Context, logg *logger.Logger, status int, err error) {
	report := pkgerrors.Inspect(err)
	fields := report.Fields()
	fields["http_status"] = status
	if status < http.StatusInternalServerError {
		delete(fields, "error_chain")
		fields["error"] = report.Message
		logg.Debug(logg.WithFields(ctx, fields), "rpc.rejected")
		return
	}
	logg.Error(logg.WithFields(ctx, fields), "rpc.failed", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		encoded = encodeFailure
	} else {
		encoded = append(encoded, '\n')
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}
