package observerproto

import "murdermystery/internal/sim/mansion"

// Version is the observer protocol version.
const Version = "0.1"

// Client -> Server. First message on the observer WS connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Replay asks for every turn already played before live turns.
	Replay bool `json:"replay,omitempty"`
}

// HTTP response for GET /observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string            `json:"protocol_version"`
	CaseNumber      string            `json:"case_number"`
	Turn            uint64            `json:"turn"`
	Case            *mansion.CaseFile `json:"case,omitempty"`
}

// Server -> Client. Sent after every turn.
type TurnMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	CaseNumber      string `json:"case_number"`

	mansion.TurnLogEntry
}
