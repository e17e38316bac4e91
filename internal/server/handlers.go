package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/editor"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
	"github.com/matzehuels/paeditor/pkg/observability"
	"github.com/matzehuels/paeditor/pkg/render"
)

// ToggleResponse is returned by POST /nodes/{id}/toggle.
type ToggleResponse struct {
	Changed   bool     `json:"changed"`
	Selected  bool     `json:"selected"`
	Selection []string `json:"selection"`
}

// ConnectRequest is the body of POST /edges.
type ConnectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SubmitRequest is the body of POST /submit. The states and transitions
// come from the session's working graph.
type SubmitRequest struct {
	SelectedColumns []automaton.ColumnDefinition `json:"selectedColumns"`
	Threshold       *float64                     `json:"threshold,omitempty"`
	Method          string                       `json:"method,omitempty"`
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	var v editor.View
	s.locked(func(ed *editor.Editor) { v = ed.View() })
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) toggleNode(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var resp ToggleResponse
	s.locked(func(ed *editor.Editor) {
		out := ed.Apply(editor.ToggleEvent{NodeID: id})
		resp = ToggleResponse{
			Changed:   out.Changed,
			Selected:  ed.IsSelected(id),
			Selection: ed.Selection(),
		}
	})
	if !resp.Changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid request body"))
		return
	}

	var out editor.Outcome
	s.locked(func(ed *editor.Editor) {
		out = ed.Apply(editor.ConnectEvent{Source: req.Source, Target: req.Target})
	})
	if out.Edge == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.logger.Info("connected", "source", req.Source, "target", req.Target, "edge", out.Edge.ID)
	writeJSON(w, http.StatusCreated, out.Edge)
}

func (s *Server) merge(w http.ResponseWriter, r *http.Request) {
	var out editor.Outcome
	s.locked(func(ed *editor.Editor) { out = ed.Apply(editor.MergeEvent{}) })
	if out.Merge == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	res := out.Merge
	observability.Editor().OnMerge(r.Context(), len(res.Merged), res.Rewritten, res.RootMerged)
	if res.RootMerged {
		s.logger.Warn("root state merged", "node", res.Node.ID)
	}
	s.logger.Info("merged", "node", res.Node.ID, "members", len(res.Merged), "rewritten", res.Rewritten)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	s.locked(func(ed *editor.Editor) { ed.Apply(editor.ClearEvent{}) })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getAutomaton(w http.ResponseWriter, r *http.Request) {
	var sub automaton.Submission
	s.locked(func(ed *editor.Editor) { sub = ed.Serialize() })
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if s.submitter == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeUnsupported, "session has no backend event log"))
		return
	}

	var body SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid request body"))
		return
	}

	req := s.defaults
	req.SelectedColumns = body.SelectedColumns
	if body.Threshold != nil {
		req.Threshold = *body.Threshold
	}
	if body.Method != "" {
		req.Method = body.Method
	}
	s.locked(func(ed *editor.Editor) { req.Submission = ed.Serialize() })

	err := s.submitter.Save(r.Context(), s.logID, req)
	observability.Editor().OnSubmit(r.Context(), s.logID, len(req.States), len(req.Transitions), err)
	if err != nil {
		s.logger.Error("submit failed", "log", s.logID, "err", err)
		writeError(w, err)
		return
	}
	s.logger.Info("submitted", "log", s.logID, "states", len(req.States), "transitions", len(req.Transitions))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) renderDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Write([]byte(s.dot(r)))
}

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := render.RenderSVG(r.Context(), s.dot(r))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) dot(r *http.Request) string {
	q := r.URL.Query()
	opts := render.Options{
		Pinned:  q.Get("pinned") == "1" || q.Get("pinned") == "true",
		ShowIDs: q.Get("ids") == "1" || q.Get("ids") == "true",
	}
	var v editor.View
	s.locked(func(ed *editor.Editor) { v = ed.View() })
	return render.ToDOT(v, opts)
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	// chi matches against RawPath when it is set, leaving params escaped.
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: apperrors.UserMessage(err)})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeMalformedAutomaton, apperrors.ErrCodeDanglingReference:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		return http.StatusBadGateway
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
