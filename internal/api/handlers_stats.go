package api

import "net/http"

func (s *Server) handlePackStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window":         s.cfg.StatsWindow.String(),
		"max_concurrent": s.service.MaxConcurrent(),
		"stats":          s.service.Stats(),
	})
}
