package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/htmlpack/internal/analyze"
	"github.com/dgallion1/htmlpack/internal/pipeline"
	"github.com/dgallion1/htmlpack/pkg/pack"
	"github.com/dgallion1/htmlpack/pkg/vdom"
	"github.com/dgallion1/htmlpack/pkg/weight"
)

const maxBatchRequests = 100

type markupRequest struct {
	Markup string `json:"markup"`
	Pretty bool   `json:"pretty,omitempty"`
}

type batchRequest struct {
	Requests []pipeline.Request `json:"requests"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req markupRequest
	if !s.decode(w, r, &req) {
		return
	}
	nodes, err := s.service.Parse(r.Context(), req.Markup)
	if err != nil {
		s.reduceError(w, err)
		return
	}
	depth := 0
	for _, n := range nodes {
		if d := pack.Depth(n); d > depth {
			depth = d
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":  len(nodes),
		"depth":  depth,
		"output": vdom.SerializeAll(nodes, vdom.SerializeOptions{Pretty: req.Pretty}),
	})
}

func (s *Server) handleStrip(w http.ResponseWriter, r *http.Request) {
	var req markupRequest
	if !s.decode(w, r, &req) {
		return
	}
	nodes, err := s.service.Strip(r.Context(), req.Markup)
	if err != nil {
		s.reduceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":  len(nodes),
		"output": vdom.SerializeAll(nodes, vdom.SerializeOptions{Pretty: req.Pretty}),
	})
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.service.Reduce(r.Context(), req)
	if err != nil {
		s.reduceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatchPack(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Requests) == 0 {
		jsonError(w, "at least one request is required", http.StatusBadRequest)
		return
	}
	if len(req.Requests) > maxBatchRequests {
		jsonError(w, "too many requests in batch", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": s.service.Batch(r.Context(), req.Requests),
	})
}

// decode reads a JSON body no larger than the upload limit. It writes the
// error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// reduceError maps pipeline errors to responses: malformed input is 422,
// bad options 400, anything else 500.
func (s *Server) reduceError(w http.ResponseWriter, err error) {
	switch {
	case isParseError(err), errors.Is(err, analyze.ErrEmptyDocument), errors.Is(err, pipeline.ErrConvert):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, weight.ErrUnknownMetric):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("reduction failed", "error", err)
		jsonError(w, "reduction failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func isParseError(err error) bool {
	var (
		malformed  *vdom.MalformedMarkupError
		mismatched *vdom.MismatchedTagError
		unclosed   *vdom.UnclosedTagError
		rootClose  *vdom.UnexpectedRootCloseError
		notSingle  *vdom.NotSingleRootError
	)
	return errors.As(err, &malformed) ||
		errors.As(err, &mismatched) ||
		errors.As(err, &unclosed) ||
		errors.As(err, &rootClose) ||
		errors.As(err, &notSingle)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
