package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the game rules. Pool files live next to it in the config dir.
type Tuning struct {
	StartHour int `yaml:"start_hour" json:"start_hour"`
	EndHour   int `yaml:"end_hour" json:"end_hour"`

	NumPlayers            int   `yaml:"num_players" json:"num_players"`
	TurnMinutes           int   `yaml:"turn_minutes" json:"turn_minutes"`
	MurderCooldownMinutes int   `yaml:"murder_cooldown_minutes" json:"murder_cooldown_minutes"`
	MoveDice              []int `yaml:"move_dice" json:"move_dice"`

	MansionWidth  []int `yaml:"mansion_width" json:"mansion_width"`
	MansionHeight []int `yaml:"mansion_height" json:"mansion_height"`
	MinItems      int   `yaml:"min_items" json:"min_items"`

	StartRoom       string  `yaml:"start_room" json:"start_room"`
	StartDoorWeight float64 `yaml:"start_door_weight" json:"start_door_weight"`
	StartDoorCost   int     `yaml:"start_door_cost" json:"start_door_cost"`
	StartingWeapon  string  `yaml:"starting_weapon" json:"starting_weapon"`
}

func Defaults() Tuning {
	return Tuning{
		StartHour:             6,
		EndHour:               11,
		NumPlayers:            6,
		TurnMinutes:           5,
		MurderCooldownMinutes: 25,
		MoveDice:              []int{3, 7},
		MansionWidth:          []int{4, 6},
		MansionHeight:         []int{3, 4},
		MinItems:              5,
		StartRoom:             "The Foyer",
		StartDoorWeight:       0.25,
		StartDoorCost:         3,
		StartingWeapon:        "Revolver",
	}
}

// Load reads path over Defaults; keys missing from the file keep their default.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// PlayMinutes is the session's time budget.
func (t Tuning) PlayMinutes() int {
	return (t.EndHour - t.StartHour) * 60
}

func (t Tuning) Validate() error {
	if t.StartHour < 0 || t.EndHour > 24 || t.EndHour <= t.StartHour {
		return fmt.Errorf("bad hours %d..%d", t.StartHour, t.EndHour)
	}
	if t.NumPlayers < 5 || t.NumPlayers > 9 {
		return fmt.Errorf("num_players %d out of range 5..9", t.NumPlayers)
	}
	if t.TurnMinutes <= 0 {
		return fmt.Errorf("turn_minutes must be positive")
	}
	if t.MurderCooldownMinutes < 0 {
		return fmt.Errorf("murder_cooldown_minutes must not be negative")
	}
	if err := checkRange("move_dice", t.MoveDice, 0); err != nil {
		return err
	}
	if err := checkRange("mansion_width", t.MansionWidth, 1); err != nil {
		return err
	}
	if err := checkRange("mansion_height", t.MansionHeight, 1); err != nil {
		return err
	}
	if t.MinItems < 0 {
		return fmt.Errorf("min_items must not be negative")
	}
	if t.StartRoom == "" || t.StartingWeapon == "" {
		return fmt.Errorf("start_room and starting_weapon are required")
	}
	if t.StartDoorWeight < 0 || t.StartDoorWeight > 1 || t.StartDoorCost < 0 {
		return fmt.Errorf("bad start room doors weight=%v cost=%d", t.StartDoorWeight, t.StartDoorCost)
	}
	return nil
}

func checkRange(name string, r []int, min int) error {
	if len(r) != 2 {
		return fmt.Errorf("%s: want [min, max], got %v", name, r)
	}
	if r[0] < min || r[1] < r[0] {
		return fmt.Errorf("%s: bad range %v", name, r)
	}
	return nil
}
