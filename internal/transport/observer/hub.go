package observer

import (
	"encoding/json"
	"sync"

	"murdermystery/internal/observerproto"
	"murdermystery/internal/sim/mansion"
)

// Hub fans encoded turns out to observer sessions. The simulation goroutine
// publishes; HTTP handlers only ever read the hub, never the mansion.
type Hub struct {
	mu         sync.Mutex
	caseNumber string
	turn       uint64
	caseFile   *mansion.CaseFile
	history    [][]byte
	subs       map[string]chan []byte
	closed     bool
	dropped    uint64
}

func NewHub(caseNumber string) *Hub {
	return &Hub{caseNumber: caseNumber, subs: map[string]chan []byte{}}
}

// Publish records entry and the case file as of that turn. Slow subscribers
// lose messages rather than stall the caller.
func (h *Hub) Publish(entry mansion.TurnLogEntry, cf mansion.CaseFile) error {
	b, err := json.Marshal(observerproto.TurnMsg{
		Type:            "TURN",
		ProtocolVersion: observerproto.Version,
		CaseNumber:      h.caseNumber,
		TurnLogEntry:    entry,
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.turn = entry.Turn + 1
	h.caseFile = &cf
	h.history = append(h.history, b)
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
			h.dropped++
		}
	}
	return nil
}

// SetCaseFile publishes the initial view before any turn is played.
func (h *Hub) SetCaseFile(cf mansion.CaseFile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.caseFile = &cf
}

func (h *Hub) bootstrap() observerproto.BootstrapResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		CaseNumber:      h.caseNumber,
		Turn:            h.turn,
		Case:            h.caseFile,
	}
}

// join registers a session. With replay the channel is pre-filled with the
// turns played so far. The channel is closed by leave or Close.
func (h *Hub) join(id string, replay bool) (<-chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	size := 256
	if replay {
		size += len(h.history)
	}
	ch := make(chan []byte, size)
	if replay {
		for _, b := range h.history {
			ch <- b
		}
	}
	h.subs[id] = ch
	return ch, true
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close ends every session after its queued turns are written.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
