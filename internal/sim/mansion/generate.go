package mansion

import (
	"fmt"

	"murdermystery/internal/sim/catalogs"
)

// generatePlayers draws the roster. Even slots only accept even pool
// indices; the murderer is drawn after the roster is full.
func (m *Mansion) generatePlayers(pool []string) error {
	n := m.rules.NumPlayers
	if len(pool) < n {
		return fmt.Errorf("people pool: need %d names, have %d", n, len(pool))
	}
	// Odd slots may also consume even indices, so require enough of them
	// for every slot to keep the rejection loop finite.
	if even := (len(pool) + 1) / 2; even < n {
		return fmt.Errorf("people pool: need %d even-indexed names, have %d", n, even)
	}

	taken := make(map[int]bool, n)
	for slot := 0; slot < n; {
		chosen := m.rand.RandInt(0, len(pool)-1)
		if taken[chosen] || (slot%2 == 0 && chosen%2 != 0) {
			continue
		}
		taken[chosen] = true
		m.players = append(m.players, NewPerson(pool[chosen]))
		slot++
	}

	m.murderer = PlayerID(m.rand.RandInt(0, len(m.players)-1))
	m.players[m.murderer].murderer = true
	return nil
}

// generateRooms fills the grid row by row from the pool without
// replacement, then replaces one boundary cell with the start room and
// places everyone there.
func (m *Mansion) generateRooms(pool []catalogs.RoomTemplate) error {
	width := m.rand.RandInt(m.rules.MansionWidth[0], m.rules.MansionWidth[1])
	height := m.rand.RandInt(m.rules.MansionHeight[0], m.rules.MansionHeight[1])
	if width*height > len(pool) {
		return fmt.Errorf("room pool: need %d rooms for a %dx%d mansion, have %d", width*height, width, height, len(pool))
	}
	for _, t := range pool {
		if t.Name == m.rules.StartRoom {
			return fmt.Errorf("room pool: %q is reserved for the start room", t.Name)
		}
	}

	left := append([]catalogs.RoomTemplate(nil), pool...)
	m.dims = Dims{Rows: width, Cols: height}
	m.grid = make([][]*Room, width)
	for x := range m.grid {
		row := make([]*Room, height)
		for y := range row {
			i := m.rand.RandInt(0, len(left)-1)
			t := left[i]
			left = append(left[:i], left[i+1:]...)
			row[y] = NewRoom(t.Name, t.DoorWeights, t.DoorCosts)
		}
		m.grid[x] = row
	}

	var start Coordinates
	switch side := m.rand.RandInt(0, 3); side {
	case 0:
		start = Coordinates{Row: 0, Col: m.rand.RandInt(0, height-1)}
	case 1:
		start = Coordinates{Row: width - 1, Col: m.rand.RandInt(0, height-1)}
	case 2:
		start = Coordinates{Row: m.rand.RandInt(0, width-1), Col: height - 1}
	default:
		start = Coordinates{Row: m.rand.RandInt(0, width-1), Col: 0}
	}

	w, c := m.rules.StartDoorWeight, m.rules.StartDoorCost
	foyer := NewRoom(m.rules.StartRoom, [4]float64{w, w, w, w}, [4]int{c, c, c, c})
	m.grid[start.Row][start.Col] = foyer
	m.foyer = start
	for id, p := range m.players {
		p.SetLocation(start)
		foyer.AddPlayer(PlayerID(id))
	}
	return nil
}

// spawnItems walks the grid row-major and places at most one item per room,
// thinning placement near rooms that already hold items. The murderer is
// then handed the starting weapon.
func (m *Mansion) spawnItems(pool catalogs.ItemPool) {
	byRoom := pool.ByRoom()
	for x := range m.grid {
		for y, room := range m.grid[x] {
			if len(m.items) > m.totalItems {
				break
			}
			if room.name == m.rules.StartRoom {
				continue
			}
			if room.HasItems() || !m.placeItemInRoom(x, y) {
				continue
			}
			t, ok := byRoom[room.name]
			if !ok {
				continue
			}
			delete(byRoom, room.name)
			room.AddItem(m.addItem(t.Name, t.Room))
		}
	}

	weapon := m.addItem(m.rules.StartingWeapon, "")
	m.players[m.murderer].PickUpItem(weapon)
}

// placeItemInRoom always draws, then refuses when two or more orthogonal
// neighbours already hold items.
func (m *Mansion) placeItemInRoom(x, y int) bool {
	surround := 0
	for _, d := range [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		c := Coordinates{Row: x + d[0], Col: y + d[1]}
		if r := m.Room(c); r != nil && r.HasItems() {
			surround++
		}
	}
	return m.rand.RandInt(0, 2) != 0 && surround < 2
}

func (m *Mansion) addItem(name, location string) ItemID {
	m.items = append(m.items, NewItem(name, location))
	return ItemID(len(m.items) - 1)
}
