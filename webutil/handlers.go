package webutil

import (
	"database/sql"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc
// signature, logging returned errors and sending a standardized JSON error
// response.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		var publicMessage string
		var statusCode int

		fields := log.Fields{
			"path":   r.URL.Path,
			"method": r.Method,
		}

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			fields["code"] = httpErr.Code
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				fields["cause"] = cause.Error()
			}
			if statusCode >= 500 {
				log.WithFields(fields).Error("Request failed")
			} else {
				log.WithFields(fields).Warn(publicMessage)
			}

		case errors.Is(err, sql.ErrNoRows):
			statusCode = http.StatusNotFound
			publicMessage = msgNotFound
			log.WithFields(fields).Info("Resource not found")

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			fields["error"] = err.Error()
			log.WithFields(fields).Error("Unhandled internal error")
		}

		if hasResponseWriterSentHeader(w) {
			// The handler already started a response; nothing left to do but
			// record the failure.
			log.WithFields(fields).Warn("Handler returned error after writing response header")
			return
		}

		RespondWithJSON(w, statusCode, map[string]string{"error": publicMessage})
	}
}
