package api

import (
	"encoding/json"
	"net/http"

	"github.com/alexanderramin/listapp/internal/domain"
)

// errorResponse is the server's error body.
type errorResponse struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ErrorCode        string            `json:"errorCode"`
	ValidationErrors map[string]string `json:"validationErrors"`
}

// classify maps a non-2xx response onto the error taxonomy.
func classify(status int, body []byte) *domain.Error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)

	e := &domain.Error{Kind: kindForStatus(status), Status: status, Message: er.Message}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Kind == domain.KindValidation && len(er.ValidationErrors) > 0 {
		e.Fields = er.ValidationErrors
	}
	return e
}

func kindForStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.KindValidation
	case http.StatusNotFound, http.StatusGone:
		return domain.KindNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return domain.KindConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.KindAuth
	default:
		return domain.KindNetwork
	}
}
