package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"smartbus/internal/domain"
	"smartbus/internal/palette"
	"smartbus/internal/panel"
	"smartbus/internal/service"
	"smartbus/internal/session"
	"smartbus/internal/viewport"
)

// CanvasHandler handles canvas API requests
type CanvasHandler struct {
	svc    *service.CanvasService
	logger *slog.Logger
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(svc *service.CanvasService, logger *slog.Logger) *CanvasHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CanvasHandler{svc: svc, logger: logger}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GestureResponse reports the gesture running after a pointer event
type GestureResponse struct {
	Gesture viewport.Gesture `json:"gesture"`
}

// ZoomRequest sets an absolute zoom factor
type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}

// SelectionRequest replaces the selection; an empty node_id clears it
type SelectionRequest struct {
	NodeID string `json:"node_id"`
}

// SessionScope loads the session named by {sid} into the request context
func (h *CanvasHandler) SessionScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		sess, err := h.svc.Session(sid)
		if err != nil {
			h.writeServiceError(w, "Unknown session", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// OpenSession creates a fresh canvas
func (h *CanvasHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.OpenSession(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to open session", err)
		return
	}
	h.writeJSON(w, snap, http.StatusCreated)
}

// CloseSession discards the canvas
func (h *CanvasHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := h.svc.CloseSession(r.Context(), sid); err != nil {
		h.writeServiceError(w, "Failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState returns the render state of the session
func (h *CanvasHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Snapshot(r.Context()), http.StatusOK)
}

// CreateNode adds a node
func (h *CanvasHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req domain.NewNode
	if !h.decode(w, r, &req) {
		return
	}

	node, err := h.svc.AddNode(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "Failed to create node", err)
		return
	}
	h.writeJSON(w, node, http.StatusCreated)
}

// UpdateNode merges a partial update into a node
func (h *CanvasHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if !h.decode(w, r, &updates) {
		return
	}

	node, found, err := h.svc.UpdateNode(r.Context(), chi.URLParam(r, "id"), updates)
	if err != nil {
		h.writeServiceError(w, "Failed to update node", err)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, node, http.StatusOK)
}

// DeleteNode removes a node and its connections
func (h *CanvasHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteNode(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// CreateConnection adds a connection
func (h *CanvasHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req domain.NewConnection
	if !h.decode(w, r, &req) {
		return
	}

	conn, err := h.svc.AddConnection(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "Failed to create connection", err)
		return
	}
	h.writeJSON(w, conn, http.StatusCreated)
}

// DeleteConnection removes a connection
func (h *CanvasHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteConnection(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// SetZoom sets an absolute zoom factor
func (h *CanvasHandler) SetZoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.SetZoom(r.Context(), req.Zoom); err != nil {
		h.writeServiceError(w, "Failed to set zoom", err)
		return
	}
	h.GetState(w, r)
}

// SetPan replaces the pan offset
func (h *CanvasHandler) SetPan(w http.ResponseWriter, r *http.Request) {
	var pan domain.Position
	if !h.decode(w, r, &pan) {
		return
	}
	h.svc.SetPan(r.Context(), pan)
	h.GetState(w, r)
}

// ZoomIn steps the zoom up
func (h *CanvasHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.svc.ZoomIn(r.Context())
	h.GetState(w, r)
}

// ZoomOut steps the zoom down
func (h *CanvasHandler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.svc.ZoomOut(r.Context())
	h.GetState(w, r)
}

// ResetView restores zoom 100% and pan (0,0)
func (h *CanvasHandler) ResetView(w http.ResponseWriter, r *http.Request) {
	h.svc.ResetView(r.Context())
	h.GetState(w, r)
}

// Select replaces the selection
func (h *CanvasHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.svc.Select(r.Context(), req.NodeID)
	h.GetState(w, r)
}

// Pointer feeds a pointer event into the gesture machine. The phase comes
// from the path.
func (h *CanvasHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	var ev viewport.PointerEvent
	if !h.decode(w, r, &ev) {
		return
	}
	ev.Kind = viewport.PointerKind(chi.URLParam(r, "kind"))

	gesture, err := h.svc.Pointer(r.Context(), ev)
	if err != nil {
		h.writeServiceError(w, "Invalid pointer event", err)
		return
	}
	h.writeJSON(w, GestureResponse{Gesture: gesture}, http.StatusOK)
}

// GetPalette returns the sidebar templates
func (h *CanvasHandler) GetPalette(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Palette(), http.StatusOK)
}

// Drop places a palette item on the canvas
func (h *CanvasHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req service.DropRequest
	if !h.decode(w, r, &req) {
		return
	}

	node, err := h.svc.Drop(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "Failed to drop item", err)
		return
	}
	h.writeJSON(w, node, http.StatusCreated)
}

// GetPanel renders the properties panel
func (h *CanvasHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.PanelView(r.Context()), http.StatusOK)
}

// EditPanel applies one panel field edit
func (h *CanvasHandler) EditPanel(w http.ResponseWriter, r *http.Request) {
	var edit panel.Edit
	if !h.decode(w, r, &edit) {
		return
	}

	view, err := h.svc.EditPanel(r.Context(), edit)
	if err != nil {
		h.writeServiceError(w, "Failed to edit panel", err)
		return
	}
	h.writeJSON(w, view, http.StatusOK)
}

// ClosePanel clears the selection
func (h *CanvasHandler) ClosePanel(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.ClosePanel(r.Context()), http.StatusOK)
}

// Helper methods

func (h *CanvasHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, "Invalid request body", "request body is empty", http.StatusBadRequest)
			return false
		}
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps service and component errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, panel.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, palette.ErrUnknownNodeType),
		errors.Is(err, palette.ErrWrongDragKind),
		errors.Is(err, panel.ErrInvalidValue),
		errors.Is(err, panel.ErrWrongNodeType),
		errors.Is(err, panel.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *CanvasHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func (h *CanvasHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, h.logger, data, statusCode)
}

func (h *CanvasHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, h.logger, ErrorResponse{Error: error, Details: details}, statusCode)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON", "error", err)
	}
}
