package handler

import "net/http"

// Health reports server liveness. It intentionally has no dependencies, so
// it stays green even when the database or upstream APIs are down.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
