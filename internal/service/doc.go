// Package service implements the canvas operations exposed over HTTP.
//
// CanvasService sits between the HTTP handlers and the per-session canvas
// store. It validates request input, routes operations to the session bound
// to the request context, and reports results in domain types.
//
// # Event System
//
// Store mutations are published on the EventBus tagged with their session id
// so connected browsers re-render through Server-Sent Events. Session
// lifecycle events (opened, closed) travel the same way.
//
// # Design Principles
//
// - Services own input validation; the store stays permissive
// - The session comes from the request context, never from arguments
// - Publishing never blocks a mutation
package service
