package mqtt

import "log"

// pending is a serialized message waiting for the broker to come back.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds messages published while disconnected, oldest first.
// When full, the oldest message is dropped. Caller must synchronize.
type outbox struct {
	msgs    []pending
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	if limit < 1 {
		limit = 1
	}
	return &outbox{
		msgs:  make([]pending, 0, limit),
		limit: limit,
	}
}

func (o *outbox) add(msg pending) {
	if len(o.msgs) == o.limit {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
		}
		o.dropped++
		copy(o.msgs, o.msgs[1:])
		o.msgs = o.msgs[:len(o.msgs)-1]
	}
	o.msgs = append(o.msgs, msg)
}

// take returns all held messages and empties the outbox.
// The second return value is how many were dropped since the last take.
func (o *outbox) take() ([]pending, int) {
	if len(o.msgs) == 0 {
		return nil, 0
	}
	msgs := o.msgs
	dropped := o.dropped
	o.msgs = make([]pending, 0, o.limit)
	o.dropped = 0
	return msgs, dropped
}

func (o *outbox) size() int {
	return len(o.msgs)
}
