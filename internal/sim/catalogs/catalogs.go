package catalogs

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Catalogs are the candidate pools a mansion is drawn from. Pool order is
// significant: generation draws indices into these slices.
type Catalogs struct {
	People PeoplePool
	Rooms  RoomPool
	Items  ItemPool
}

type PeoplePool struct {
	Names  []string
	Digest string
}

type RoomPool struct {
	Templates []RoomTemplate
	Digest    string
}

// RoomTemplate door arrays are indexed N, S, E, W.
type RoomTemplate struct {
	Name        string     `json:"name"`
	DoorWeights [4]float64 `json:"door_weights"`
	DoorCosts   [4]int     `json:"door_costs"`
}

type ItemPool struct {
	Items  []ItemTemplate
	Digest string
}

type ItemTemplate struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// ByRoom maps a home room to the item spawned there. When two items share a
// room the later entry wins.
func (p ItemPool) ByRoom() map[string]ItemTemplate {
	out := make(map[string]ItemTemplate, len(p.Items))
	for _, it := range p.Items {
		out[it.Room] = it
	}
	return out
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadPeople(filepath.Join(configDir, "people.in"), &c.People); err != nil {
		return nil, err
	}
	if err := loadRooms(filepath.Join(configDir, "rooms.in"), &c.Rooms); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.in"), &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// lineReader walks the non-blank lines of a pool file, remembering line
// numbers for error messages.
type lineReader struct {
	name string
	sc   *bufio.Scanner
	line int
}

func newLineReader(name string, raw []byte) *lineReader {
	return &lineReader{name: name, sc: bufio.NewScanner(bytes.NewReader(raw))}
}

func (r *lineReader) next() (string, error) {
	for r.sc.Scan() {
		r.line++
		s := strings.TrimSpace(r.sc.Text())
		if s != "" {
			return s, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", r.name, err)
	}
	return "", fmt.Errorf("%s: unexpected end of file after line %d", r.name, r.line)
}

func (r *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: line %d: %s", r.name, r.line, fmt.Sprintf(format, args...))
}

// count reads the leading entry count of a pool file.
func (r *lineReader) count() (int, error) {
	s, err := r.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, r.errorf("bad count %q", s)
	}
	return n, nil
}

func loadPeople(path string, out *PeoplePool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	r := newLineReader("people.in", raw)
	n, err := r.count()
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	out.Names = make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, err := r.next()
		if err != nil {
			return err
		}
		if seen[name] {
			return r.errorf("duplicate person %q", name)
		}
		seen[name] = true
		out.Names = append(out.Names, name)
	}
	return nil
}

func loadRooms(path string, out *RoomPool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	r := newLineReader("rooms.in", raw)
	n, err := r.count()
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	out.Templates = make([]RoomTemplate, 0, n)
	for i := 0; i < n; i++ {
		var t RoomTemplate
		if t.Name, err = r.next(); err != nil {
			return err
		}
		if seen[t.Name] {
			return r.errorf("duplicate room %q", t.Name)
		}
		seen[t.Name] = true

		s, err := r.next()
		if err != nil {
			return err
		}
		fields := strings.Fields(s)
		if len(fields) != 4 {
			return r.errorf("%s: want 4 door weights, got %d", t.Name, len(fields))
		}
		for d, f := range fields {
			w, err := strconv.ParseFloat(f, 64)
			if err != nil || w < 0 || w > 1 {
				return r.errorf("%s: bad door weight %q", t.Name, f)
			}
			t.DoorWeights[d] = w
		}

		if s, err = r.next(); err != nil {
			return err
		}
		fields = strings.Fields(s)
		if len(fields) != 4 {
			return r.errorf("%s: want 4 door costs, got %d", t.Name, len(fields))
		}
		for d, f := range fields {
			c, err := strconv.Atoi(f)
			if err != nil || c < 0 {
				return r.errorf("%s: bad door cost %q", t.Name, f)
			}
			t.DoorCosts[d] = c
		}
		out.Templates = append(out.Templates, t)
	}
	return nil
}

func loadItems(path string, out *ItemPool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	r := newLineReader("items.in", raw)
	n, err := r.count()
	if err != nil {
		return err
	}
	out.Items = make([]ItemTemplate, 0, n)
	for i := 0; i < n; i++ {
		var it ItemTemplate
		if it.Name, err = r.next(); err != nil {
			return err
		}
		if it.Room, err = r.next(); err != nil {
			return err
		}
		out.Items = append(out.Items, it)
	}
	return nil
}
