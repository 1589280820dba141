package mansion

// ItemID indexes Mansion items; NoItem means empty hands.
type ItemID int

const NoItem ItemID = -1

type Item struct {
	name     string
	location string
	marked   bool
}

func NewItem(name, location string) *Item {
	return &Item{name: name, location: location}
}

func (it *Item) Name() string { return it.name }

// Location is the home room the item spawned in, or "" for carried-in items.
func (it *Item) Location() string { return it.location }

func (it *Item) Marked() bool { return it.marked }

// Mark flags the item as a murder weapon. Marks are never cleared.
func (it *Item) Mark() { it.marked = true }
