package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gatesketch/pkg/buildinfo"
	"github.com/matzehuels/gatesketch/pkg/circuit"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/expr"
	"github.com/matzehuels/gatesketch/pkg/observability"
	"github.com/matzehuels/gatesketch/pkg/pipeline"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// User-facing messages for the form.
const (
	msgInvalidExpression = "Error: invalid Boolean expression format. Check your input."
	msgBuildFailed       = "Error building the circuit. Please try again."
	msgBodyTooLarge      = "Error: the submitted form is too large."
)

// page is the data rendered into the index template.
type page struct {
	Expression string
	Error      string
	Detail     string
	ImageURL   string
	Postfix    []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, page{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		if tooLarge(err) {
			s.renderPage(w, s.failure(r, err), page{Error: msgBodyTooLarge})
			return
		}
		s.renderPage(w, http.StatusBadRequest, page{Error: msgInvalidExpression})
		return
	}
	p := page{Expression: r.PostForm.Get("expression")}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Expression: p.Expression,
		Seed:       s.opts.seed,
		Scale:      s.opts.scale,
		Identity:   s.opts.identity,
		Formats:    []string{pipeline.FormatPNG},
	})
	if err != nil {
		status := s.failure(r, err)
		switch {
		case gserrors.Is(err, gserrors.ErrCodeInvalidExpression):
			p.Error = msgInvalidExpression
			p.Detail = expr.Detail(err)
		case gserrors.IsInvalid(err):
			p.Error = "Error: " + gserrors.UserMessage(err) + "."
		default:
			p.Error = msgBuildFailed
		}
		s.renderPage(w, status, p)
		return
	}

	p.ImageURL = "/images/" + res.ArtifactIDs[pipeline.FormatPNG]
	p.Postfix = res.Postfix
	s.renderPage(w, http.StatusOK, p)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, p); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := gserrors.ValidateArtifactID(id); err != nil {
		http.Error(w, gserrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	a, err := s.runner.Store.Get(r.Context(), id)
	if err != nil {
		status := s.failure(r, err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	if s.opts.identity == storage.IdentityContent {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}
	_, _ = w.Write(a.Data)
}

// circuitRequest is the body of POST /api/circuits.
type circuitRequest struct {
	Expression string   `json:"expression"`
	Seed       uint64   `json:"seed,omitempty"`
	Formats    []string `json:"formats,omitempty"`
}

// circuitResponse is returned by POST /api/circuits.
type circuitResponse struct {
	Expression string            `json:"expression"`
	Postfix    []string          `json:"postfix"`
	Circuit    *circuit.Circuit  `json:"circuit"`
	Artifacts  map[string]string `json:"artifacts"`
}

type errorResponse struct {
	Error  string        `json:"error"`
	Code   gserrors.Code `json:"code,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

func (s *Server) handleAPICircuit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req circuitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if tooLarge(err) {
			writeJSON(w, s.failure(r, err), errorResponse{Error: "request body too large", Code: gserrors.ErrCodeInvalidInput})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: gserrors.ErrCodeInvalidInput})
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.opts.seed
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatJSON}
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Expression: req.Expression,
		Seed:       seed,
		Scale:      s.opts.scale,
		Identity:   s.opts.identity,
		Formats:    formats,
	})
	if err != nil {
		status := s.failure(r, err)
		msg := gserrors.UserMessage(err)
		if status == http.StatusInternalServerError {
			msg = msgBuildFailed
		}
		writeJSON(w, status, errorResponse{Error: msg, Code: gserrors.GetCode(err), Detail: expr.Detail(err)})
		return
	}

	links := make(map[string]string, len(res.ArtifactIDs))
	for format, id := range res.ArtifactIDs {
		links[format] = "/images/" + id
	}
	writeJSON(w, http.StatusOK, circuitResponse{
		Expression: req.Expression,
		Postfix:    res.Postfix,
		Circuit:    res.Circuit,
		Artifacts:  links,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// failure maps err to an HTTP status and records server-side failures.
func (s *Server) failure(r *http.Request, err error) int {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", "id", RequestIDFrom(r.Context()), "error", err)
	}
	return status
}

func statusFor(err error) int {
	switch {
	case gserrors.Is(err, gserrors.ErrCodeInvalidExpression):
		return http.StatusUnprocessableEntity
	case gserrors.IsInvalid(err):
		return http.StatusBadRequest
	case gserrors.Is(err, gserrors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	if tooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// tooLarge reports whether err came from exceeding maxBodyBytes.
func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
