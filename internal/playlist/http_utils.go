package playlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeOpError maps engine errors onto the {error} / {error, message}
// response shapes. Anything without a status is an upstream failure.
func writeOpError(w http.ResponseWriter, err error) {
	var oe *opError
	if errors.As(err, &oe) {
		if oe.detail != "" {
			writeJSON(w, oe.status, map[string]string{"error": oe.msg, "message": oe.detail})
			return
		}
		writeError(w, oe.status, oe.msg)
		return
	}
	log.Errorf("playlist: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
