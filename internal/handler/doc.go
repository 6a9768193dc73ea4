// Package handler implements the HTTP layer of the smartbus canvas server.
//
// # Handlers
//
// CanvasHandler serves the per-session canvas API: nodes, connections,
// viewport controls, selection, pointer gestures, palette drops and the
// properties panel. Every route under /api/sessions/{sid} runs inside the
// session scope installed by SessionScope; a handler reached without it
// panics, and Recover turns the panic into a logged 500.
//
// # API Design
//
// Routes follow REST conventions:
// - GET for retrieval
// - POST for creation and one-shot commands (zoom-in, drop, pointer)
// - PUT/PATCH for updates
// - DELETE for removal
//
// Mutations on ids that do not exist are no-ops and answer 204.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /events endpoint streams store changes. A client passes ?session=<id>
// and receives only the events of that session.
package handler
