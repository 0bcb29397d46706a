package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/accounts-ledger/src/internal/commons"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

const maxBodyBytes = 1 << 20

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:        http.StatusBadRequest,
	domain.KindRuleViolation:     http.StatusUnprocessableEntity,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindOperatingWindow:   http.StatusUnprocessableEntity,
	domain.KindLimitExceeded:     http.StatusTooManyRequests,
	domain.KindInsufficientFunds: http.StatusUnprocessableEntity,
	domain.KindConflict:          http.StatusConflict,
	domain.KindUnavailable:       http.StatusServiceUnavailable,
}

// StatusForError maps an error kind to its HTTP status.
func StatusForError(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeBody reads the JSON body into dest. On failure it writes a 400 and
// returns false.
func decodeBody[T any](w http.ResponseWriter, r *http.Request, start time.Time, dest any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, dest)
	return true
}

func respond[T any](w http.ResponseWriter, r *http.Request, start time.Time, okStatus int, response commons.Response[T], err error) {
	status := okStatus
	if err != nil {
		status = StatusForError(err)
		logError(r, err, logger.Fields{"message": response.Message, "code": response.Code})
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
