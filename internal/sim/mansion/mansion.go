package mansion

import (
	"fmt"
	"math/big"

	"murdermystery/internal/sim/catalogs"
	"murdermystery/internal/sim/rng"
	"murdermystery/internal/sim/tuning"
)

type Config struct {
	CaseNumber string
	Rules      tuning.Tuning
}

// Mansion is one simulated evening. It owns the roster, the item arena and
// the grid; every random decision is drawn from a single stream seeded by the
// case number, so the whole trajectory is a function of Config and the pools.
type Mansion struct {
	cfg   Config
	rules tuning.Tuning
	seed  *big.Int
	rand  *rng.Rand

	players  []*Person
	murderer PlayerID
	items    []*Item
	grid     [][]*Room
	dims     Dims
	foyer    Coordinates

	totalItems int

	timeVal    int
	coolDown   int
	turn       uint64
	over       bool
	finishedAt int

	events []Event
	last   TurnLogEntry
}

func New(cfg Config, cats *catalogs.Catalogs) (*Mansion, error) {
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	seed, err := rng.CaseSeed(cfg.CaseNumber)
	if err != nil {
		return nil, err
	}

	m := &Mansion{
		cfg:        cfg,
		rules:      cfg.Rules,
		seed:       seed,
		rand:       rng.New(seed),
		coolDown:   cfg.Rules.MurderCooldownMinutes,
		finishedAt: -1,
	}
	if err := m.generatePlayers(cats.People.Names); err != nil {
		return nil, err
	}
	if err := m.generateRooms(cats.Rooms.Templates); err != nil {
		return nil, err
	}
	m.totalItems = max(m.dims.Rows*m.dims.Cols/2, m.rules.MinItems)
	m.spawnItems(cats.Items)
	return m, nil
}

func (m *Mansion) CaseNumber() string   { return m.cfg.CaseNumber }
func (m *Mansion) Seed() *big.Int       { return new(big.Int).Set(m.seed) }
func (m *Mansion) Rules() tuning.Tuning { return m.rules }

// Time is the number of minutes elapsed since the start hour.
func (m *Mansion) Time() int { return m.timeVal }

// Bounds returns the start and end hour.
func (m *Mansion) Bounds() (start, end int) { return m.rules.StartHour, m.rules.EndHour }

func (m *Mansion) Players() []*Person { return m.players }
func (m *Mansion) Items() []*Item     { return m.items }
func (m *Mansion) Rooms() [][]*Room   { return m.grid }
func (m *Mansion) Dims() Dims         { return m.dims }
func (m *Mansion) Foyer() Coordinates { return m.foyer }
func (m *Mansion) TotalItems() int    { return m.totalItems }
func (m *Mansion) CoolDown() int      { return m.coolDown }

func (m *Mansion) Murderer() PlayerID { return m.murderer }

func (m *Mansion) Player(id PlayerID) *Person { return m.players[id] }

// Item returns nil for NoItem.
func (m *Mansion) Item(id ItemID) *Item {
	if id == NoItem {
		return nil
	}
	return m.items[id]
}

// Room returns nil outside the grid.
func (m *Mansion) Room(c Coordinates) *Room {
	if !m.dims.Contains(c) {
		return nil
	}
	return m.grid[c.Row][c.Col]
}

func (m *Mansion) AlivePlayers() int {
	n := 0
	for _, p := range m.players {
		if p.alive {
			n++
		}
	}
	return n
}

// Over reports whether NextTurn has returned false.
func (m *Mansion) Over() bool { return m.over }

// FinishedAt is the elapsed minute at which the session ended, or -1 while
// it is still running.
func (m *Mansion) FinishedAt() int { return m.finishedAt }

// Draws exposes how much of the random stream has been consumed.
func (m *Mansion) Draws() uint64 { return m.rand.Draws() }

func (m *Mansion) itemName(id ItemID) string {
	if id == NoItem {
		return ""
	}
	return m.items[id].name
}
