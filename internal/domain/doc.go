// Package domain defines the core types of the smartbus process canvas.
//
// This package holds the entities and value objects shared by the canvas
// store, the viewport controller, and the HTTP layer.
//
// # Core Types
//
// Node is a placed process step: an AI agent, a human representative, or a
// plain process. Nodes carry a title, an optional description, a position in
// world space, and an open property map.
//
// Connection links two nodes with a typed relationship (workflow, hierarchy,
// data).
//
// CanvasState is an immutable snapshot of everything placed on a canvas plus
// its viewport transform (zoom and pan).
//
// # Node Configuration
//
// The property map is decoded into a typed configuration per node type
// (AgentConfig, HumanConfig) so callers work with concrete fields while the
// stored shape stays open.
//
// # Design Principles
//
// - Value types, copied on every mutation
// - No transport or storage dependencies
// - Closed enumerations with Valid checks
package domain
