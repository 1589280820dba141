package mansion

import (
	"errors"
	"math"

	"murdermystery/internal/sim/rng"
)

var (
	ErrAlreadyDead = errors.New("person already dead")
	ErrNotHolding  = errors.New("person holds no item")
)

// PlayerID indexes the Mansion roster.
type PlayerID int

type Person struct {
	name     string
	held     ItemID
	murderer bool
	alive    bool
	moves    int
	loc      Coordinates
}

func NewPerson(name string) *Person {
	return &Person{name: name, held: NoItem, alive: true}
}

func (p *Person) Name() string              { return p.name }
func (p *Person) Held() ItemID              { return p.held }
func (p *Person) HasItem() bool             { return p.held != NoItem }
func (p *Person) IsMurderer() bool          { return p.murderer }
func (p *Person) IsAlive() bool             { return p.alive }
func (p *Person) Moves() int                { return p.moves }
func (p *Person) SetMoves(n int)            { p.moves = n }
func (p *Person) Location() Coordinates     { return p.loc }
func (p *Person) SetLocation(c Coordinates) { p.loc = c }

func (p *Person) Kill() error {
	if !p.alive {
		return ErrAlreadyDead
	}
	p.alive = false
	return nil
}

func (p *Person) PickUpItem(id ItemID) { p.held = id }

func (p *Person) DropItem() (ItemID, error) {
	if p.held == NoItem {
		return NoItem, ErrNotHolding
	}
	id := p.held
	p.held = NoItem
	return id, nil
}

// ChooseDoor tries up to three of the four doors in random order. Each try
// pops a door and draws a check value; the door is taken when it leads
// inside the grid, is not sealed (weight 0), the check beats its weight, and
// enough moves remain to pay its cost. The cost is deducted on success.
// The fourth door is never tried.
func (p *Person) ChooseDoor(r *rng.Rand, weights [4]float64, costs [4]int, at Coordinates, dims Dims) Coordinates {
	doors := []Direction{North, South, East, West}
	for len(doors) > 1 {
		i := r.RandInt(0, len(doors)-1)
		door := doors[i]
		doors = append(doors[:i], doors[i+1:]...)
		check := r.Uniform(0, 1)

		if !dims.hasDoor(at, door) || weights[door] == 0 {
			continue
		}
		if check > weights[door] && p.moves >= costs[door] {
			p.moves -= costs[door]
			return at.Step(door)
		}
	}
	return at
}

// Pursue steps one cell toward the nearest other living person, closing the
// row gap before the column gap. Ties keep the earliest roster entry. It
// consumes no moves and no randomness.
func (p *Person) Pursue(at Coordinates, roster []*Person) Coordinates {
	var target *Person
	best := math.Inf(1)
	for _, other := range roster {
		if other == p || !other.alive {
			continue
		}
		dr := other.loc.Row - at.Row
		dc := other.loc.Col - at.Col
		if d := math.Sqrt(float64(dr*dr + dc*dc)); d < best {
			best = d
			target = other
		}
	}
	if target == nil {
		return at
	}
	switch {
	case target.loc.Row < at.Row:
		at.Row--
	case target.loc.Row > at.Row:
		at.Row++
	case target.loc.Col < at.Col:
		at.Col--
	case target.loc.Col > at.Col:
		at.Col++
	}
	return at
}

// Attack reports whether the murderer may strike at minute now: the cooldown
// must have lapsed unless the attack is forced.
func (p *Person) Attack(now, cooldown int, forced bool) bool {
	return cooldown < now || forced
}
