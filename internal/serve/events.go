package serve

import (
	"fmt"
	"net/http"
	"sync"
)

// broker fans out server-sent event messages to connected clients. Slow
// clients drop messages instead of blocking the publisher.
type broker struct {
	mu     sync.Mutex
	conns  map[chan string]struct{}
	closed bool
}

func newBroker() *broker {
	return &broker{conns: make(map[chan string]struct{})}
}

func (b *broker) subscribe() (chan string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	ch := make(chan string, 8)
	b.conns[ch] = struct{}{}
	return ch, true
}

func (b *broker) unsubscribe(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.conns[ch]; ok {
		delete(b.conns, ch)
		close(ch)
	}
}

func (b *broker) publish(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.conns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *broker) clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

// close ends every stream; later subscribers are refused.
func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.conns {
		delete(b.conns, ch)
		close(ch)
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ch, ok := s.events.subscribe()
	if !ok {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.events.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
