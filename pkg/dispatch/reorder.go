package dispatch

import "github.com/voicegw/voicegw/pkg/gateway/events"

// reorderBuffer releases outcomes in submission order. The merger delivers
// segments with strictly increasing ids, so submission order and segment_id
// order are the same thing; out-of-order transcriber completions park here
// until every earlier slot has completed.
//
// Not safe for concurrent use; the dispatcher serializes access.
type reorderBuffer struct {
	next  uint64
	ready map[uint64]events.ServerMessage
}

func newReorderBuffer() *reorderBuffer {
	return &reorderBuffer{
		next:  1,
		ready: make(map[uint64]events.ServerMessage),
	}
}

// complete stores the outcome for a slot and returns every outcome that is
// now releasable, in order.
func (b *reorderBuffer) complete(slot uint64, msg events.ServerMessage) []events.ServerMessage {
	b.ready[slot] = msg

	var out []events.ServerMessage
	for {
		msg, ok := b.ready[b.next]
		if !ok {
			return out
		}
		delete(b.ready, b.next)
		b.next++
		out = append(out, msg)
	}
}

// waiting returns how many outcomes are parked behind an incomplete slot.
func (b *reorderBuffer) waiting() int {
	return len(b.ready)
}
