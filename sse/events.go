package sse

// Event types sent by Stream.
const (
	// EventItem carries one item of the sequence. Its id is the item index.
	EventItem = "item"
	// EventDone ends a stream that drained without error.
	EventDone = "done"
	// EventError ends a stream whose sequence failed.
	EventError = "error"
)

// DoneEvent is the data of the done event.
type DoneEvent struct {
	Count int `json:"count"`
}
