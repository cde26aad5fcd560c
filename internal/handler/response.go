package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/apperror"
	"github.com/counterpos/api/internal/service"
)

// writeJSON encodes v before touching the response, so a value that cannot
// be encoded becomes a plain 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError renders a service error as {"error": message} with the status
// of its kind. Unclassified errors are logged and hidden from the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	appErr := apperror.From(err)
	switch appErr.Kind() {
	case apperror.KindInternal:
		logger.Error(op, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	case apperror.KindUnavailable:
		logger.Warn(op, zap.Error(err))
		writeJSON(w, appErr.StatusCode(), map[string]string{"error": appErr.Message()})
		return
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// urlID parses a UUID path parameter, writing a 400 when it is malformed.
func urlID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid %s ID", label)})
		return uuid.Nil, false
	}
	return id, true
}

func formatItemError(index int, msg string) string {
	return fmt.Sprintf("items[%d]: %s", index, msg)
}

func numericToString(n pgtype.Numeric) string {
	return service.MoneyString(n)
}

func optionalNumericString(n pgtype.Numeric) *string {
	if !n.Valid {
		return nil
	}
	s := numericToString(n)
	return &s
}

func int4Ptr(n pgtype.Int4) *int32 {
	if !n.Valid {
		return nil
	}
	v := n.Int32
	return &v
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := uuid.UUID(id.Bytes)
	return &v
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
