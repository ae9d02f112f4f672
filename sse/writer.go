package sse

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrStreamingUnsupported is returned by NewWriter when the response cannot
// be flushed.
var ErrStreamingUnsupported = stderrors.New("sse: streaming not supported")

// Writer sends events on one response.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the event-stream headers and lifts the write deadline so
// long streams outlive the server's WriteTimeout.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	// Not every writer supports deadlines; keep streaming without one.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one event with data encoded as JSON and flushes it. Empty
// event and id fields are omitted.
func (w *Writer) Send(event, id string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: encoding %s event: %w", event, err)
	}

	var b strings.Builder
	if event != "" {
		b.WriteString("event: " + event + "\n")
	}
	if id != "" {
		b.WriteString("id: " + id + "\n")
	}
	b.WriteString("data: ")
	b.Write(payload)
	b.WriteString("\n\n")

	if _, err := w.w.Write([]byte(b.String())); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

// Comment writes a comment line, which clients ignore. Proxies see traffic.
func (w *Writer) Comment(text string) error {
	if _, err := fmt.Fprintf(w.w, ": %s\n\n", text); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
