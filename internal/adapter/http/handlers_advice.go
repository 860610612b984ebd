package adapthttp

import (
	"net/http"

	"glicosmart/internal/advice"
)

func (s *Server) handleLatestAdvice(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	latest := snap.Latest()
	if latest == nil {
		writeJSON(w, http.StatusOK, map[string]any{"message": s.advisor.Greeting(snap.Profile), "reading": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": s.advisor.ForReading(snap.Profile, *latest),
		"reading": viewOf(*latest),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := parseJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"reply": s.advisor.Reply(snap.Profile, snap.Latest(), body.Message),
		"topic": advice.Topic(body.Message),
	})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": advice.Tips(r.URL.Query().Get("category"))})
}
