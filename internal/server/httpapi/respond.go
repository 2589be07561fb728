package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/gophident/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

const msgInternal = "Internal server error"

type errorMessage struct {
	Msg string `json:"msg"`
}

type errorResponse struct {
	Detail []errorMessage `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, msgs ...string) {
	body := errorResponse{Detail: make([]errorMessage, 0, len(msgs))}
	for _, m := range msgs {
		body.Detail = append(body.Detail, errorMessage{Msg: m})
	}
	writeJSON(w, status, body)
}

func statusForKind(k common.Kind) int {
	switch k {
	case common.KindUnauthenticated:
		return http.StatusUnauthorized
	case common.KindForbidden:
		return http.StatusForbidden
	case common.KindConflict:
		return http.StatusConflict
	case common.KindBadRequest:
		return http.StatusBadRequest
	case common.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place where service errors become responses.
// Unexpected errors are logged and hidden behind a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeDetail(w, http.StatusUnprocessableEntity, validationMessages(verrs)...)
		return
	}

	var e *common.Error
	if !errors.As(err, &e) {
		s.loggerFor(r).Error(r.Context(), "request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	status := statusForKind(e.Kind)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	writeDetail(w, status, e.Msg)
}

// validationMessages flattens ozzo errors into "field: reason" lines in
// field order.
func validationMessages(errs validation.Errors) []string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		if errs[f] == nil {
			continue
		}
		msgs = append(msgs, f+": "+errs[f].Error())
	}
	return msgs
}
