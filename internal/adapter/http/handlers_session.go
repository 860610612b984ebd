package adapthttp

import (
	"net/http"

	"glicosmart/internal/app"

	"go.uber.org/zap"
)

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"loggedIn":        snap.LoggedIn(),
		"activeAccountId": snap.ActiveAccountID,
		"profile":         snap.Profile,
		"readings":        snap.Readings,
		"unsaved":         snap.Unsaved,
	})
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID string `json:"accountId"`
	}
	if err := parseJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetActive(body.AccountID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "activeAccountId": body.AccountID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type profileBody struct {
	Name   *string `json:"name"`
	Age    *string `json:"age"`
	Weight *string `json:"weight"`
	Photo  *string `json:"photo"`
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := parseJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.store.CreateAccount(r.Context(), app.ProfileInput{
		Name:   deref(body.Name),
		Age:    deref(body.Age),
		Weight: deref(body.Weight),
		Photo:  body.Photo,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"profile":  p,
		"greeting": s.advisor.Greeting(&p),
		"unsaved":  s.store.Snapshot().Unsaved,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := parseJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.store.ActiveAccountID() == "" {
		writeNoSession(w)
		return
	}
	p, err := s.store.UpdateProfile(r.Context(), app.ProfilePatch(body))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "profile": p})
}

func (s *Server) handleResetReadings(w http.ResponseWriter, r *http.Request) {
	if s.store.ActiveAccountID() == "" {
		writeNoSession(w)
		return
	}
	s.store.ResetReadings(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.store.WipeAll(r.Context()); err != nil {
		s.log.Error("wipe failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
