package sse

import (
	"context"
	"strconv"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/sequence"
)

// Stream drains s into item events, then sends a done event with the count.
// When a pull fails, an error event carrying the error envelope ends the
// stream and the pull error is returned with the count sent so far. Write
// failures, such as a disconnected client, close the session and are
// returned as is.
func Stream[T any](ctx context.Context, w *Writer, s *sequence.Sequence[T]) (int, error) {
	it := s.Iter()
	defer it.Close()

	count := 0
	for {
		item, ok, err := it.Next(ctx)
		if err != nil {
			if sendErr := w.Send(EventError, "", errors.FromError(err).ToResponse()); sendErr != nil {
				return count, sendErr
			}
			return count, err
		}
		if !ok {
			return count, w.Send(EventDone, "", DoneEvent{Count: count})
		}
		if err := w.Send(EventItem, strconv.Itoa(count), item); err != nil {
			return count, err
		}
		count++
	}
}
