package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/newslinemedia/technews/webutil"
	log "github.com/sirupsen/logrus"
)

// HeaderImportSecret carries the shared secret that authorizes import
// triggers. Requests without the right value do no import work at all.
const HeaderImportSecret = "X-Import-Secret"

// RequireImportSecret rejects requests whose shared-secret header does not
// match the configured value. An empty configured secret disables the
// endpoints entirely rather than leaving them open.
func RequireImportSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(HeaderImportSecret)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				log.WithFields(log.Fields{
					"path":   r.URL.Path,
					"method": r.Method,
				}).Warn("Rejected import trigger with missing or invalid secret")
				webutil.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing import secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
