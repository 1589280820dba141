package tuning

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoad_ConfigMatchesDefaults(t *testing.T) {
	got, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := Defaults(); !reflect.DeepEqual(got, want) {
		t.Fatalf("configs/tuning.yaml drifted from defaults:\n got %+v\nwant %+v", got, want)
	}
	if got.PlayMinutes() != 300 {
		t.Fatalf("PlayMinutes: got %d", got.PlayMinutes())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("end_hour: 8\nnum_players: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.EndHour != 8 || got.NumPlayers != 7 || got.StartHour != 6 || got.StartRoom != "The Foyer" {
		t.Fatalf("unexpected tuning: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Tuning)
		want string
	}{
		{"hours", func(t *Tuning) { t.EndHour = t.StartHour }, "bad hours"},
		{"players low", func(t *Tuning) { t.NumPlayers = 4 }, "num_players"},
		{"players high", func(t *Tuning) { t.NumPlayers = 10 }, "num_players"},
		{"turn", func(t *Tuning) { t.TurnMinutes = 0 }, "turn_minutes"},
		{"dice", func(t *Tuning) { t.MoveDice = []int{7, 3} }, "move_dice"},
		{"width", func(t *Tuning) { t.MansionWidth = []int{4} }, "mansion_width"},
		{"weapon", func(t *Tuning) { t.StartingWeapon = "" }, "starting_weapon"},
		{"door", func(t *Tuning) { t.StartDoorWeight = 2 }, "start room doors"},
	}
	for _, tc := range cases {
		tt := Defaults()
		tc.mut(&tt)
		err := tt.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v want %q", tc.name, err, tc.want)
		}
	}
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("num_players: [1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "tuning.yaml") {
		t.Fatalf("expected yaml error, got %v", err)
	}
}
