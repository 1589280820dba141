package mansion

import (
	"reflect"
	"testing"

	"murdermystery/internal/sim/catalogs"
	"murdermystery/internal/sim/tuning"
)

func loadCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func newMansion(t *testing.T, caseNumber string) *Mansion {
	t.Helper()
	m, err := New(Config{CaseNumber: caseNumber, Rules: tuning.Defaults()}, loadCatalogs(t))
	if err != nil {
		t.Fatalf("New(%q): %v", caseNumber, err)
	}
	return m
}

// runToEnd plays until NextTurn returns false and returns every entry.
func runToEnd(t *testing.T, m *Mansion) []TurnLogEntry {
	t.Helper()
	var entries []TurnLogEntry
	for i := 0; i < 1000; i++ {
		more, err := m.NextTurn()
		if err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
		entries = append(entries, m.LastTurn())
		if !more {
			return entries
		}
	}
	t.Fatalf("session did not end")
	return nil
}

func playerNames(m *Mansion) []string {
	out := make([]string, 0, len(m.Players()))
	for _, p := range m.Players() {
		out = append(out, p.Name())
	}
	return out
}

func itemNames(m *Mansion) []string {
	out := make([]string, 0, len(m.Items()))
	for _, it := range m.Items() {
		out = append(out, it.Name())
	}
	return out
}

func gridNames(m *Mansion) [][]string {
	out := make([][]string, 0, len(m.Rooms()))
	for _, row := range m.Rooms() {
		names := make([]string, 0, len(row))
		for _, r := range row {
			names = append(names, r.Name())
		}
		out = append(out, names)
	}
	return out
}

type killRecord struct {
	Minute int
	Victim string
	Item   string
	Room   string
	Pos    [2]int
}

func kills(entries []TurnLogEntry) []killRecord {
	var out []killRecord
	for _, e := range entries {
		for _, ev := range e.Events {
			if ev.Kind == EventKill {
				out = append(out, killRecord{ev.Minute, ev.Victim, ev.Item, ev.Room, ev.Pos})
			}
		}
	}
	return out
}

func TestNew_Case100(t *testing.T) {
	m := newMansion(t, "100")

	if start, end := m.Bounds(); start != 6 || end != 11 {
		t.Fatalf("bounds: got %d..%d", start, end)
	}
	if m.CoolDown() != 25 || m.Time() != 0 {
		t.Fatalf("cooldown=%d time=%d", m.CoolDown(), m.Time())
	}
	wantPlayers := []string{"Sir Brunette", "Sir Ube", "Chef Grey", "Mr. Brown", "Monsieur Verde", "Professor Purple"}
	if got := playerNames(m); !reflect.DeepEqual(got, wantPlayers) {
		t.Fatalf("players: got %v", got)
	}
	if m.Murderer() != 4 || !m.Player(4).IsMurderer() {
		t.Fatalf("murderer: got %d", m.Murderer())
	}
	if m.Dims() != (Dims{Rows: 6, Cols: 4}) {
		t.Fatalf("dims: got %+v", m.Dims())
	}
	wantItems := []string{
		"Old Sword", "Poison", "Knife", "Lead Pipe", "Scalpel", "Frying Pan", "Wrench",
		"Pool Net", "Tuning Fork", "Paper Cutter", "Corkscrew", "Fire Poker", "Heavy Book", "Revolver",
	}
	if got := itemNames(m); !reflect.DeepEqual(got, wantItems) {
		t.Fatalf("items: got %v", got)
	}
	if m.AlivePlayers() != 6 {
		t.Fatalf("alive: got %d", m.AlivePlayers())
	}
	wantGrid := [][]string{
		{"Master Bedroom", "Billiard Room", "Armory", "Trophy Room"},
		{"Conservatory", "Dining Room", "Attic", "Pantry"},
		{"Ballroom", "Boiler Room", "Infirmary", "Observatory"},
		{"Kitchen", "Study", "Garage", "Pool House"},
		{"Recital Hall", "Office", "Greenhouse", "Wine Cellar"},
		{"Parlor", "Laundry Room", "The Foyer", "Library"},
	}
	if got := gridNames(m); !reflect.DeepEqual(got, wantGrid) {
		t.Fatalf("grid: got %v", got)
	}
	foyer := Coordinates{Row: 5, Col: 2}
	if m.Foyer() != foyer || len(m.Room(foyer).People()) != 6 {
		t.Fatalf("foyer: %v with %d people", m.Foyer(), len(m.Room(foyer).People()))
	}
	if w := m.Room(foyer).DoorWeights(); w != [4]float64{0.25, 0.25, 0.25, 0.25} {
		t.Fatalf("foyer weights: %v", w)
	}
	rev := m.Item(m.Player(4).Held())
	if rev == nil || rev.Name() != "Revolver" || rev.Location() != "" {
		t.Fatalf("murderer should carry the Revolver, got %+v", rev)
	}
	if m.Draws() != 79 {
		t.Fatalf("draws after generation: got %d want 79", m.Draws())
	}
}

func TestNextTurn_Case100(t *testing.T) {
	m := newMansion(t, "100")
	entries := runToEnd(t, m)

	if len(entries) != 58 {
		t.Fatalf("turn calls: got %d want 58", len(entries))
	}
	for i, e := range entries[:57] {
		if !e.Continue {
			t.Fatalf("entry %d should continue", i)
		}
	}
	if last := entries[57]; last.Continue || len(last.Events) != 0 || last.Minute != 285 {
		t.Fatalf("final entry: %+v", last)
	}
	if m.Time() != 285 || m.FinishedAt() != 285 || m.AlivePlayers() != 1 {
		t.Fatalf("time=%d finished=%d alive=%d", m.Time(), m.FinishedAt(), m.AlivePlayers())
	}
	if start, end := m.Bounds(); start != 6 || end != 11 {
		t.Fatalf("bounds changed: %d..%d", start, end)
	}

	murderer := m.Player(m.Murderer())
	if murderer.Name() != "Monsieur Verde" || !murderer.IsAlive() {
		t.Fatalf("murderer: %s alive=%v", murderer.Name(), murderer.IsAlive())
	}
	at := murderer.Location()
	if at != (Coordinates{Row: 1, Col: 1}) || m.Room(at).Name() != "Dining Room" {
		t.Fatalf("murderer at %v %s", at, m.Room(at).Name())
	}
	if m.Room(at).AlivePeople(m.Players()) != 1 {
		t.Fatalf("murderer should be alone")
	}
	if it := m.Item(murderer.Held()); it == nil || it.Name() != "Knife" {
		t.Fatalf("murderer item: %+v", it)
	}

	wantKills := []killRecord{
		{35, "Mr. Brown", "Revolver", "Office", [2]int{4, 1}},
		{95, "Professor Purple", "Tuning Fork", "Kitchen", [2]int{3, 0}},
		{110, "Chef Grey", "Wrench", "Office", [2]int{4, 1}},
		{270, "Sir Brunette", "Corkscrew", "Ballroom", [2]int{2, 0}},
		{280, "Sir Ube", "Scalpel", "Attic", [2]int{1, 2}},
	}
	if got := kills(entries); !reflect.DeepEqual(got, wantKills) {
		t.Fatalf("kills:\n got %+v\nwant %+v", got, wantKills)
	}

	var marked []string
	for _, it := range m.Items() {
		if it.Marked() {
			marked = append(marked, it.Name())
		}
	}
	if want := []string{"Scalpel", "Wrench", "Tuning Fork", "Corkscrew", "Revolver"}; !reflect.DeepEqual(marked, want) {
		t.Fatalf("marked: got %v", marked)
	}
	if m.Draws() != 3536 {
		t.Fatalf("draws: got %d want 3536", m.Draws())
	}

	sum := m.Summary()
	if sum != (Summary{Clock: "10:45pm", Murdered: 5, Alive: 1, MurdererEscaped: true}) {
		t.Fatalf("summary: %+v", sum)
	}
}

func TestNew_Case99(t *testing.T) {
	m := newMansion(t, "99")

	wantPlayers := []string{"Reverend Amethyst", "Chef Grey", "Sir Ube", "Sir Brunette", "Monsieur Verde", "Solicitor Azure"}
	if got := playerNames(m); !reflect.DeepEqual(got, wantPlayers) {
		t.Fatalf("players: got %v", got)
	}
	if m.Dims() != (Dims{Rows: 6, Cols: 4}) || m.Murderer() != 3 {
		t.Fatalf("dims=%+v murderer=%d", m.Dims(), m.Murderer())
	}
	wantItems := []string{
		"Wrench", "Heavy Book", "Rolling Pin", "Lead Pipe", "Fire Poker", "Candelabra", "Knife",
		"Tuning Fork", "Frying Pan", "Curtain Rod", "Pillow", "Piano Wire", "Revolver",
	}
	if got := itemNames(m); !reflect.DeepEqual(got, wantItems) {
		t.Fatalf("items: got %v", got)
	}
	if m.Foyer() != (Coordinates{Row: 3, Col: 0}) {
		t.Fatalf("foyer: %v", m.Foyer())
	}
	if m.Draws() != 88 {
		t.Fatalf("draws after generation: got %d want 88", m.Draws())
	}
	if _, err := m.NextTurn(); err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if m.Draws() != 155 || m.Time() != 5 {
		t.Fatalf("after one turn: draws=%d time=%d", m.Draws(), m.Time())
	}
}

func TestNextTurn_Case99(t *testing.T) {
	m := newMansion(t, "99")
	entries := runToEnd(t, m)

	if len(entries) != 25 {
		t.Fatalf("turn calls: got %d want 25", len(entries))
	}
	if m.Time() != 120 || m.FinishedAt() != 120 || m.AlivePlayers() != 1 {
		t.Fatalf("time=%d finished=%d alive=%d", m.Time(), m.FinishedAt(), m.AlivePlayers())
	}
	murderer := m.Player(m.Murderer())
	at := murderer.Location()
	if murderer.Name() != "Sir Brunette" || at != (Coordinates{Row: 4, Col: 0}) || m.Room(at).Name() != "Guest Bedroom" {
		t.Fatalf("murderer %s at %v %s", murderer.Name(), at, m.Room(at).Name())
	}
	if murderer.HasItem() {
		t.Fatalf("murderer should hold nothing, holds %s", m.Item(murderer.Held()).Name())
	}

	wantKills := []killRecord{
		{30, "Sir Ube", "Revolver", "Pool House", [2]int{3, 1}},
		{55, "Reverend Amethyst", "Candelabra", "Ballroom", [2]int{1, 3}},
		{75, "Monsieur Verde", "Frying Pan", "Ballroom", [2]int{1, 3}},
		{100, "Chef Grey", "Piano Wire", "The Foyer", [2]int{3, 0}},
		{115, "Solicitor Azure", "Tuning Fork", "Master Bedroom", [2]int{4, 1}},
	}
	if got := kills(entries); !reflect.DeepEqual(got, wantKills) {
		t.Fatalf("kills:\n got %+v\nwant %+v", got, wantKills)
	}
	if m.Draws() != 1688 {
		t.Fatalf("draws: got %d want 1688", m.Draws())
	}
	if got := m.Summary().Clock; got != "8:00pm" {
		t.Fatalf("clock: got %q", got)
	}
}

func TestNextTurn_AfterEndIsReadOnly(t *testing.T) {
	m := newMansion(t, "99")
	runToEnd(t, m)

	digest := m.Digest()
	draws := m.Draws()
	for i := 0; i < 3; i++ {
		more, err := m.NextTurn()
		if err != nil || more {
			t.Fatalf("NextTurn after end: more=%v err=%v", more, err)
		}
	}
	if m.Digest() != digest || m.Draws() != draws || !m.Over() {
		t.Fatalf("state changed after the session ended")
	}
}
