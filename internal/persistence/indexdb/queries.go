package indexdb

import (
	"database/sql"
	"errors"
)

// Death describes how a player died.
type Death struct {
	Minute int
	Killer string
	Item   string
	Room   string
}

// ItemEvent is a pickup or drop of one item.
type ItemEvent struct {
	Minute int
	Player string
	Room   string
}

func (s *SQLiteIndex) DeathOf(caseNumber, player string) (Death, bool, error) {
	var d Death
	var item sql.NullString
	err := s.db.QueryRow(`SELECT minute, player, item, room FROM events
		WHERE case_number=? AND kind='KILL' AND victim=?
		ORDER BY turn, seq LIMIT 1`, caseNumber, player).Scan(&d.Minute, &d.Killer, &item, &d.Room)
	if errors.Is(err, sql.ErrNoRows) {
		return d, false, nil
	}
	if err != nil {
		return d, false, err
	}
	d.Item = item.String
	return d, true, nil
}

// RoomAt returns the room player occupied after the last turn played at or
// before minute.
func (s *SQLiteIndex) RoomAt(caseNumber, player string, minute int) (string, bool, error) {
	var room string
	err := s.db.QueryRow(`SELECT room FROM positions
		WHERE case_number=? AND player=? AND minute<=?
		ORDER BY turn DESC LIMIT 1`, caseNumber, player, minute).Scan(&room)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return room, true, nil
}

// FirstDrop finds the earliest time item was left in a room, either by a
// plain drop or by a swap.
func (s *SQLiteIndex) FirstDrop(caseNumber, item string) (ItemEvent, bool, error) {
	return s.itemEvent(`SELECT minute, player, room FROM events
		WHERE case_number=? AND ((kind='DROP' AND item=?) OR (kind='SWAP' AND dropped=?))
		ORDER BY turn, seq LIMIT 1`, caseNumber, item, item)
}

// LastPickup finds the latest time item was taken from a room.
func (s *SQLiteIndex) LastPickup(caseNumber, item string) (ItemEvent, bool, error) {
	return s.itemEvent(`SELECT minute, player, room FROM events
		WHERE case_number=? AND kind IN ('PICKUP','SWAP') AND item=?
		ORDER BY turn DESC, seq DESC LIMIT 1`, caseNumber, item)
}

func (s *SQLiteIndex) itemEvent(query string, args ...any) (ItemEvent, bool, error) {
	var ev ItemEvent
	err := s.db.QueryRow(query, args...).Scan(&ev.Minute, &ev.Player, &ev.Room)
	if errors.Is(err, sql.ErrNoRows) {
		return ev, false, nil
	}
	if err != nil {
		return ev, false, err
	}
	return ev, true, nil
}

// AliveAt returns how many players were alive after the last turn played at
// or before minute.
func (s *SQLiteIndex) AliveAt(caseNumber string, minute int) (int, bool, error) {
	var alive int
	err := s.db.QueryRow(`SELECT alive FROM turns
		WHERE case_number=? AND minute<=?
		ORDER BY turn DESC LIMIT 1`, caseNumber, minute).Scan(&alive)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return alive, true, nil
}

// CaseSummary is the indexed outcome of a finished session.
type CaseSummary struct {
	Murderer   string
	FinishedAt int
	Alive      int
	Murdered   int
	Escaped    bool
	Digest     string
}

func (s *SQLiteIndex) Case(caseNumber string) (CaseSummary, bool, error) {
	var c CaseSummary
	var escaped int
	err := s.db.QueryRow(`SELECT murderer, finished_at, alive, murdered, escaped, digest FROM cases WHERE case_number=?`, caseNumber).
		Scan(&c.Murderer, &c.FinishedAt, &c.Alive, &c.Murdered, &escaped, &c.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return c, false, nil
	}
	if err != nil {
		return c, false, err
	}
	c.Escaped = escaped != 0
	return c, true, nil
}
