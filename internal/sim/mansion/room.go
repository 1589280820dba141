package mansion

// Room is one grid cell. Occupants keep arrival order; items behave as a
// queue where pickups take the head and drops append.
type Room struct {
	name    string
	weights [4]float64
	costs   [4]int

	people []PlayerID
	items  []ItemID
}

func NewRoom(name string, weights [4]float64, costs [4]int) *Room {
	return &Room{name: name, weights: weights, costs: costs}
}

func (r *Room) Name() string            { return r.name }
func (r *Room) DoorWeights() [4]float64 { return r.weights }
func (r *Room) DoorCosts() [4]int       { return r.costs }

func (r *Room) People() []PlayerID { return append([]PlayerID(nil), r.people...) }
func (r *Room) Items() []ItemID    { return append([]ItemID(nil), r.items...) }
func (r *Room) HasItems() bool     { return len(r.items) > 0 }

func (r *Room) AddPlayer(id PlayerID) { r.people = append(r.people, id) }

// RemovePlayer drops the first occurrence of id.
func (r *Room) RemovePlayer(id PlayerID) bool {
	for i, p := range r.people {
		if p == id {
			r.people = append(r.people[:i], r.people[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) AddItem(id ItemID) { r.items = append(r.items, id) }

// HeadItem returns the item a pickup would take.
func (r *Room) HeadItem() (ItemID, bool) {
	if len(r.items) == 0 {
		return NoItem, false
	}
	return r.items[0], true
}

func (r *Room) TakeItem() (ItemID, bool) {
	if len(r.items) == 0 {
		return NoItem, false
	}
	id := r.items[0]
	r.items = r.items[1:]
	return id, true
}

// AlivePeople counts occupants that are still alive.
func (r *Room) AlivePeople(roster []*Person) int {
	n := 0
	for _, id := range r.people {
		if roster[id].alive {
			n++
		}
	}
	return n
}
