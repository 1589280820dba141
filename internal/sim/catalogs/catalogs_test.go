package catalogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Configs(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if got := len(cats.People.Names); got != 28 {
		t.Fatalf("people: got %d want 28", got)
	}
	if cats.People.Names[0] != "Professor Purple" || cats.People.Names[27] != "Maestro Maroon" {
		t.Fatalf("people order: %q .. %q", cats.People.Names[0], cats.People.Names[27])
	}
	if got := len(cats.Rooms.Templates); got != 27 {
		t.Fatalf("rooms: got %d want 27", got)
	}
	dining := cats.Rooms.Templates[0]
	if dining.Name != "Dining Room" || dining.DoorWeights != [4]float64{0, 0, 0.10, 0.30} || dining.DoorCosts != [4]int{3, 4, 4, 2} {
		t.Fatalf("dining room: %+v", dining)
	}
	if got := len(cats.Items.Items); got != 26 {
		t.Fatalf("items: got %d want 26", got)
	}
	if it, ok := cats.Items.ByRoom()["Dining Room"]; !ok || it.Name != "Knife" {
		t.Fatalf("Dining Room item: %+v ok=%v", it, ok)
	}
	for _, d := range []string{cats.People.Digest, cats.Rooms.Digest, cats.Items.Digest} {
		if len(d) != 64 {
			t.Fatalf("digest: %q", d)
		}
	}
}

func TestItemPool_ByRoomLaterWins(t *testing.T) {
	p := ItemPool{Items: []ItemTemplate{
		{Name: "Knife", Room: "Kitchen"},
		{Name: "Rope", Room: "Attic"},
		{Name: "Cleaver", Room: "Kitchen"},
	}}
	m := p.ByRoom()
	if len(m) != 2 || m["Kitchen"].Name != "Cleaver" {
		t.Fatalf("ByRoom: %+v", m)
	}
}

func writePools(t *testing.T, people, rooms, items string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{"people.in": people, "rooms.in": rooms, "items.in": items} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad_Errors(t *testing.T) {
	okPeople := "2\nAda\nBo\n"
	okRooms := "1\nHall\n0.1 0.2 0.3 0.4\n1 2 3 4\n"
	okItems := "1\nRope\nHall\n"

	cases := []struct {
		name                 string
		people, rooms, items string
		want                 string
	}{
		{"short people", "3\nAda\nBo\n", okRooms, okItems, "people.in: unexpected end"},
		{"bad count", "x\n", okRooms, okItems, "people.in: line 1: bad count"},
		{"duplicate person", "2\nAda\nAda\n", okRooms, okItems, "duplicate person"},
		{"three weights", okPeople, "1\nHall\n0.1 0.2 0.3\n1 2 3 4\n", okItems, "want 4 door weights"},
		{"weight range", okPeople, "1\nHall\n0.1 0.2 0.3 1.5\n1 2 3 4\n", okItems, "bad door weight"},
		{"negative cost", okPeople, "1\nHall\n0.1 0.2 0.3 0.4\n1 2 -3 4\n", okItems, "bad door cost"},
		{"missing item room", okPeople, okRooms, "1\nRope\n", "items.in: unexpected end"},
	}
	for _, tc := range cases {
		dir := writePools(t, tc.people, tc.rooms, tc.items)
		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v want %q", tc.name, err, tc.want)
		}
	}
}

func TestLoad_BlankLinesIgnored(t *testing.T) {
	dir := writePools(t, "\n2\n\nAda\nBo\n\n", "1\n\nHall\n0.1 0.2 0.3 0.4\n\n1 2 3 4\n", "1\nRope\n\nHall\n")
	cats, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cats.People.Names) != 2 || cats.Rooms.Templates[0].DoorCosts[3] != 4 || cats.Items.Items[0].Room != "Hall" {
		t.Fatalf("unexpected catalogs: %+v", cats)
	}
}
