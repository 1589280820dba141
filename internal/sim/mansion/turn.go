package mansion

import "fmt"

// NextTurn plays one round. It returns false when the murderer is the last
// one standing or when the time budget is spent; after that the mansion no
// longer changes and further calls keep returning false.
//
// Players act in roster order starting just after the murderer. An entity
// precondition failure aborts the session with an error.
func (m *Mansion) NextTurn() (bool, error) {
	if m.over {
		return false, nil
	}
	m.events = nil
	minute := m.timeVal

	if m.murdererWins() {
		m.over = true
		m.finishedAt = m.timeVal
		m.record(minute, false)
		return false, nil
	}

	n := len(m.players)
	for k := 0; k < n; k++ {
		id := PlayerID((k + int(m.murderer) + 1) % n)
		if err := m.playTurn(id); err != nil {
			return false, fmt.Errorf("turn %d minute %d: %s: %w", m.turn, m.timeVal, m.players[id].name, err)
		}
	}

	m.timeVal += m.rules.TurnMinutes
	more := m.timeVal < m.rules.PlayMinutes()
	if !more {
		m.over = true
		m.finishedAt = m.timeVal
	}
	m.record(minute, more)
	return more, nil
}

func (m *Mansion) murdererWins() bool {
	return m.AlivePlayers() == 1 && m.players[m.murderer].alive
}

func (m *Mansion) record(minute int, more bool) {
	m.last = TurnLogEntry{
		Turn:     m.turn,
		Minute:   minute,
		Events:   m.events,
		Players:  m.playerStates(),
		Alive:    m.AlivePlayers(),
		Continue: more,
		Digest:   m.Digest(),
	}
	m.turn++
}

// playTurn moves one player up to twice and then resolves item exchange.
// The held item is sampled before anything else happens this turn, and the
// exchange rules look at that sample.
func (m *Mansion) playTurn(id PlayerID) error {
	p := m.players[id]
	held := p.held
	if !p.alive {
		return nil
	}

	p.moves = m.rand.RandInt(m.rules.MoveDice[0], m.rules.MoveDice[1])
	for attempt := 0; attempt < 2 && p.moves > 0; attempt++ {
		at := p.loc
		room := m.Room(at)

		var dest Coordinates
		if p.murderer {
			alone := room.AlivePeople(m.players) == 2
			forced := m.rand.RandInt(0, 99) == 0
			if alone && p.Attack(m.timeVal, m.coolDown, forced) && held != NoItem && !m.items[held].marked {
				if err := m.murder(id, room, held); err != nil {
					return err
				}
			}
			room.RemovePlayer(id)
			if m.coolDown > m.timeVal {
				dest = p.ChooseDoor(m.rand, room.weights, room.costs, at, m.dims)
			} else {
				dest = p.Pursue(at, m.players)
			}
		} else {
			room.RemovePlayer(id)
			dest = p.ChooseDoor(m.rand, room.weights, room.costs, at, m.dims)
		}

		if !m.dims.Contains(dest) || (dest != at && !adjacent(dest, at)) {
			return fmt.Errorf("illegal move %v -> %v", at, dest)
		}
		p.loc = dest
		to := m.Room(dest)
		to.AddPlayer(id)
		if dest != at {
			from := pos(at)
			m.emit(Event{Kind: EventMove, Player: p.name, Room: to.name, Pos: pos(dest), From: &from})
		}
	}

	return m.exchangeItems(id, held)
}

// murder kills every other living occupant of room. Each kill marks the
// weapon and redraws the cooldown.
func (m *Mansion) murder(id PlayerID, room *Room, weapon ItemID) error {
	killer := m.players[id]
	for _, other := range room.People() {
		victim := m.players[other]
		if other == id || !victim.alive {
			continue
		}
		if err := victim.Kill(); err != nil {
			return fmt.Errorf("kill %s: %w", victim.name, err)
		}
		m.items[weapon].Mark()
		m.coolDown = m.timeVal + m.rand.RandInt(1, 3)*m.rules.TurnMinutes
		m.emit(Event{Kind: EventKill, Player: killer.name, Victim: victim.name, Item: m.items[weapon].name, Room: room.name, Pos: pos(killer.loc)})
	}
	return nil
}

func (m *Mansion) exchangeItems(id PlayerID, held ItemID) error {
	p := m.players[id]
	room := m.Room(p.loc)
	head, roomHas := room.HeadItem()

	switch {
	case held != NoItem && !roomHas:
		if p.murderer && m.items[held].marked {
			return m.drop(p, room)
		} else if !p.murderer && m.rand.RandInt(0, 19) == 0 {
			return m.drop(p, room)
		}

	case held == NoItem && roomHas:
		if m.rand.RandInt(0, 4) != 0 && !m.items[head].marked {
			room.TakeItem()
			p.PickUpItem(head)
			m.emit(Event{Kind: EventPickup, Player: p.name, Item: m.items[head].name, Room: room.name, Pos: pos(p.loc)})
		}

	case held != NoItem && roomHas:
		swap := false
		if p.murderer && m.items[held].marked {
			swap = !m.items[head].marked
		} else if !p.murderer && m.rand.RandInt(0, 1) == 0 {
			swap = !m.items[head].marked
		}
		if swap {
			return m.swap(p, room)
		}
	}
	return nil
}

func (m *Mansion) drop(p *Person, room *Room) error {
	id, err := p.DropItem()
	if err != nil {
		return err
	}
	room.AddItem(id)
	m.emit(Event{Kind: EventDrop, Player: p.name, Item: m.items[id].name, Room: room.name, Pos: pos(p.loc)})
	return nil
}

// swap leaves the held item at the back of the room queue and takes the head.
func (m *Mansion) swap(p *Person, room *Room) error {
	taken, _ := room.TakeItem()
	dropped, err := p.DropItem()
	if err != nil {
		return err
	}
	room.AddItem(dropped)
	p.PickUpItem(taken)
	m.emit(Event{Kind: EventSwap, Player: p.name, Item: m.items[taken].name, Dropped: m.items[dropped].name, Room: room.name, Pos: pos(p.loc)})
	return nil
}
