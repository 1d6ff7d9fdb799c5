package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/middleware"
)

var errInvalidBody = errors.New("Invalid request body")

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeBody reads a JSON object from the request body. An empty body
// decodes as an empty object.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// clientIP returns the caller's address as a string for audit events
func clientIP(r *http.Request) string {
	if id, ok := identity.Get(r.Context()); ok && id.RemoteIP != nil {
		return id.RemoteIP.String()
	}
	if ip := middleware.RemoteIP(r); ip != nil {
		return ip.String()
	}
	return ""
}
