package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/server/facility"
)

// Graph formats accepted by GraphPath.
const (
	FormatTree    = "tree"
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
)

const maxBodySize = 1 << 16

// EnterRequest is the body of POST /enter. An empty body admits a visitor.
type EnterRequest struct {
	Subscriber bool `json:"subscriber"`
}

// ExitRequest is the body of POST /exit. A missing slot releases a random
// parked vehicle.
type ExitRequest struct {
	Slot *int `json:"slot,omitempty"`
}

// OperationResponse is returned by the enter and exit routes.
type OperationResponse struct {
	Operation facility.View `json:"operation"`
	Snapshot  lot.Snapshot  `json:"snapshot"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Operation *facility.View `json:"operation,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.facility.Snapshot())
}

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req EnterRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	op, err := s.facility.Enter(r.Context(), req.Subscriber)
	s.writeOperation(w, op, err)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req ExitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	op, err := s.facility.Exit(r.Context(), req.Slot)
	s.writeOperation(w, op, err)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var render func(*automaton.Automaton) string
	contentType := "text/plain; charset=utf-8"
	switch format := r.URL.Query().Get("format"); format {
	case "", FormatTree:
		render = func(a *automaton.Automaton) string {
			return automaton.Tree(a, "Parking Facility", parking.Describe)
		}
	case FormatMermaid:
		render = automaton.Mermaid
	case FormatDOT:
		render = automaton.DOT
		contentType = "text/vnd.graphviz; charset=utf-8"
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("unknown graph format: "+format), nil)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, s.facility.Render(render)); err != nil {
		s.logger.Warn("Failed to write graph", "error", err)
	}
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		op, ok := s.facility.Operation(id)
		if !ok {
			s.writeError(w, http.StatusNotFound, errors.New("operation not found: "+id), nil)
			return
		}
		s.writeJSON(w, http.StatusOK, op.View())
		return
	}

	ops := s.facility.Operations()
	views := make([]facility.View, 0, len(ops))
	for _, op := range ops {
		v := op.View()
		v.Logs = nil
		views = append(views, v)
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) writeOperation(w http.ResponseWriter, op *facility.Operation, err error) {
	if op == nil {
		s.writeError(w, statusFor(err), err, nil)
		return
	}

	view := op.View()
	if err != nil {
		s.writeError(w, statusFor(err), err, &view)
		return
	}
	s.writeJSON(w, http.StatusOK, OperationResponse{Operation: view, Snapshot: s.facility.Snapshot()})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error, view *facility.View) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Operation: view})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

// statusFor maps facility errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parking.ErrFull), errors.Is(err, parking.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, lot.ErrSlotEmpty):
		return http.StatusNotFound
	case errors.Is(err, lot.ErrSlotOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, facility.ErrNotRunning):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
