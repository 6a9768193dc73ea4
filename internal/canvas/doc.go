// Package canvas implements the canvas state store: the single source of
// truth for the nodes, connections, selection, and viewport of one editing
// session.
//
// Every mutation replaces the affected slice of state with a new value, so a
// CanvasState returned by State is never modified afterwards and views can
// detect changes by comparing snapshots. Operations on ids that are not
// present are no-ops.
package canvas
