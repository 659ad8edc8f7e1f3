package httputils

import (
	"net/http"

	"boscoin.io/governance/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/event-stream"
}

var ErrorsToStatus = map[uint]int{
	errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,
	errors.StorageCoreError.Code:          http.StatusInternalServerError,
	errors.StorageTransactionFailed.Code:  http.StatusInternalServerError,
	errors.NotImplemented.Code:            http.StatusNotImplemented,
	errors.EncodingFailed.Code:            http.StatusInternalServerError,

	errors.Unsigned.Code:                    http.StatusUnauthorized,
	errors.SignatureVerificationFailed.Code: http.StatusUnauthorized,

	errors.NotFound.Code:            http.StatusNotFound,
	errors.AccountDoesNotExist.Code: http.StatusNotFound,
	errors.HoldDoesNotExist.Code:    http.StatusNotFound,
	errors.NoLock.Code:              http.StatusNotFound,
	errors.BlockNotFound.Code:       http.StatusNotFound,
	errors.TransactionNotFound.Code: http.StatusNotFound,

	errors.TransactionAlreadyExists.Code: http.StatusConflict,
	errors.TransactionPoolFull.Code:      http.StatusServiceUnavailable,
	errors.TooManyRequests.Code:          http.StatusTooManyRequests,
	errors.HTTPServerError.Code:          http.StatusInternalServerError,
}

// StatusCode maps `err` to the http status; coded errors not listed in
// `ErrorsToStatus` are client errors.
func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
