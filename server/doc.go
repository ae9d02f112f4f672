// Package server exposes plan evaluation over HTTP using Gin.
//
// Routes:
//
//   - POST /v1/evaluate: evaluate an inline or stored plan over JSON items
//   - POST /v1/evaluate/stream: stream the items of a plan as server-sent events
//   - GET /v1/operations: list registered stage and terminal operations
//   - GET /healthz: aggregated component health
//   - GET /livez: liveness probe
//   - GET /version: build information
//
// Every request passes through recovery, request id, CORS, body size limit,
// optional rate limiting and request logging middleware (server/middleware).
// Errors are rendered as {"error": {code, message, details}} with the status
// from errors.HTTPStatus.
package server
