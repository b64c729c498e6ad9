// Package broadcast implements the subscriber registry and fan-out
// dispatcher: per-book sets of market-data and trade sinks, each delivered
// to via its own bounded queue so a slow subscriber can never block the
// match loop. The dispatcher goroutine is a one-sink worker: a done
// channel for shutdown and a goroutine draining a bounded queue, the same
// shape used for per-connection session loops elsewhere in this codebase.
package broadcast

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// sinkQueueDepth bounds the per-sink backlog. Once full, the oldest queued
// message is dropped to make room for the newest.
const sinkQueueDepth = 64

// Sink is the opaque send-text channel a subscriber registers. Send
// failures evict the sink; there is no retry.
type Sink interface {
	Send(payload []byte) error
}

// dispatcher owns one sink's delivery goroutine and bounded queue.
type dispatcher struct {
	sink    Sink
	queue   chan []byte
	done    chan struct{}
	onEvict func()
	mu      sync.Mutex
	closed  bool
}

func newDispatcher(sink Sink, onEvict func()) *dispatcher {
	d := &dispatcher{
		sink:    sink,
		queue:   make(chan []byte, sinkQueueDepth),
		done:    make(chan struct{}),
		onEvict: onEvict,
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case payload := <-d.queue:
			if err := d.sink.Send(payload); err != nil {
				log.Warn().Err(err).Msg("sink delivery failed, evicting")
				sinkEvictions.Inc()
				d.stop()
				if d.onEvict != nil {
					d.onEvict()
				}
				return
			}
		}
	}
}

// enqueue delivers payload in order, dropping the oldest queued message on
// overflow rather than blocking the caller (the match loop).
func (d *dispatcher) enqueue(payload []byte) {
	select {
	case d.queue <- payload:
		return
	default:
	}
	select {
	case <-d.queue:
	default:
	}
	select {
	case d.queue <- payload:
	default:
	}
}

func (d *dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.done)
}
