// Package sse writes Server-Sent Events.
//
// A Writer prepares an http.ResponseWriter for event streaming and sends
// JSON-encoded events. Stream drains a sequence into item events followed
// by a single done or error event:
//
//	w, err := sse.NewWriter(rw)
//	count, err := sse.Stream(ctx, w, seq)
//
// The wire format is
//
//	event: item
//	id: 0
//	data: 42
//
// with a blank line after each event.
package sse
