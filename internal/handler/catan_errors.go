package handler

import (
	"net/http"

	"github.com/hexforge/catan/pkg/catan"
)

// writeCatanError maps a typed engine error onto the matching HTTP status
// and writes it as the standard {"error": ...} body.
func writeCatanError(w http.ResponseWriter, err *catan.Error) {
	status := http.StatusInternalServerError
	switch err.Kind {
	case catan.KindInvalidRequest, catan.KindIllegalAction:
		status = http.StatusBadRequest
	case catan.KindNotFound:
		status = http.StatusNotFound
	case catan.KindProviderError:
		status = http.StatusBadGateway
	}
	writeError(w, status, err.Error())
}
