package mansion

type EventKind string

const (
	EventMove   EventKind = "MOVE"
	EventKill   EventKind = "KILL"
	EventPickup EventKind = "PICKUP"
	EventDrop   EventKind = "DROP"
	EventSwap   EventKind = "SWAP"
)

// Event is one observable fact of a turn. Item is what was picked up,
// dropped or used to kill; Dropped is the item left behind by a SWAP.
type Event struct {
	Kind    EventKind `json:"kind"`
	Minute  int       `json:"minute"`
	Player  string    `json:"player"`
	Victim  string    `json:"victim,omitempty"`
	Item    string    `json:"item,omitempty"`
	Dropped string    `json:"dropped,omitempty"`
	Room    string    `json:"room"`
	Pos     [2]int    `json:"pos"`
	From    *[2]int   `json:"from,omitempty"`
}

type PlayerState struct {
	Name  string `json:"name"`
	Room  string `json:"room"`
	Pos   [2]int `json:"pos"`
	Alive bool   `json:"alive"`
	Item  string `json:"item,omitempty"`
}

// TurnLogEntry records one NextTurn call. Minute is the elapsed minute the
// turn was played at; Players is the state after it.
type TurnLogEntry struct {
	Turn     uint64        `json:"turn"`
	Minute   int           `json:"minute"`
	Events   []Event       `json:"events,omitempty"`
	Players  []PlayerState `json:"players"`
	Alive    int           `json:"alive"`
	Continue bool          `json:"continue"`
	Digest   string        `json:"digest"`
}

// SessionHeader is everything needed to re-simulate a session.
type SessionHeader struct {
	Type         string `json:"type"`
	CaseNumber   string `json:"case_number"`
	Seed         string `json:"seed"`
	PeopleDigest string `json:"people_digest"`
	RoomsDigest  string `json:"rooms_digest"`
	ItemsDigest  string `json:"items_digest"`
	TuningDigest string `json:"tuning_digest"`
	InitDigest   string `json:"init_digest"`
}

func pos(c Coordinates) [2]int { return [2]int{c.Row, c.Col} }

func (m *Mansion) emit(e Event) {
	e.Minute = m.timeVal
	m.events = append(m.events, e)
}

func (m *Mansion) playerStates() []PlayerState {
	out := make([]PlayerState, len(m.players))
	for i, p := range m.players {
		out[i] = PlayerState{
			Name:  p.name,
			Room:  m.Room(p.loc).name,
			Pos:   pos(p.loc),
			Alive: p.alive,
			Item:  m.itemName(p.held),
		}
	}
	return out
}

// LastTurn returns the entry recorded by the most recent NextTurn call.
func (m *Mansion) LastTurn() TurnLogEntry { return m.last }
