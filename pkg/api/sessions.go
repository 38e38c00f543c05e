package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/session"
)

// sessionPatch lists the mutations a PATCH may apply. They run in field
// order: preset, category, from, to, input, then swap.
type sessionPatch struct {
	Preset   *string `json:"preset,omitempty"`
	Category *string `json:"category,omitempty"`
	From     *string `json:"from,omitempty"`
	To       *string `json:"to,omitempty"`
	Input    *string `json:"input,omitempty"`
	Swap     bool    `json:"swap,omitempty"`
}

func (p sessionPatch) apply(sess *session.Session) error {
	if p.Preset != nil {
		preset, ok := session.PresetByLabel(*p.Preset)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "unknown preset %q", *p.Preset)
		}
		if err := sess.ApplyPreset(preset); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := sess.SetCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.From != nil {
		if err := sess.SetFrom(*p.From); err != nil {
			return err
		}
	}
	if p.To != nil {
		if err := sess.SetTo(*p.To); err != nil {
			return err
		}
	}
	if p.Input != nil {
		sess.SetInput(*p.Input)
	}
	if p.Swap {
		sess.Swap()
	}
	return nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.Runner.Engine, s.SessionTTL)
	if err := s.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var patch sessionPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid session patch"))
		return
	}
	if err := patch.apply(sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Touch(s.SessionTTL)
	if err := s.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) loadSession(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess.Bind(s.Runner.Engine), nil
}
