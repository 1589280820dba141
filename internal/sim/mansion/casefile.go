package mansion

import "fmt"

// CaseFile is the serialisable read-only view of a mansion.
type CaseFile struct {
	CaseNumber string `json:"case_number"`
	Seed       string `json:"seed"`
	StartHour  int    `json:"start_hour"`
	EndHour    int    `json:"end_hour"`
	Minutes    int    `json:"minutes"`
	FinishedAt int    `json:"finished_at"`
	Turns      uint64 `json:"turns"`
	Dims       Dims   `json:"dims"`
	Foyer      [2]int `json:"foyer"`
	Murderer   string `json:"murderer"`
	Alive      int    `json:"alive"`
	Digest     string `json:"digest"`

	Players []PlayerView `json:"players"`
	Rooms   []RoomView   `json:"rooms"`
	Items   []ItemView   `json:"items"`
}

type PlayerView struct {
	Name     string `json:"name"`
	Murderer bool   `json:"murderer"`
	Alive    bool   `json:"alive"`
	Pos      [2]int `json:"pos"`
	Room     string `json:"room"`
	Item     string `json:"item,omitempty"`
}

type RoomView struct {
	Name        string     `json:"name"`
	Pos         [2]int     `json:"pos"`
	DoorWeights [4]float64 `json:"door_weights"`
	DoorCosts   [4]int     `json:"door_costs"`
	People      []string   `json:"people"`
	Items       []string   `json:"items"`
}

type ItemView struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Marked   bool   `json:"marked"`
	Holder   string `json:"holder,omitempty"`
}

func (m *Mansion) CaseFile() CaseFile {
	cf := CaseFile{
		CaseNumber: m.cfg.CaseNumber,
		Seed:       m.seed.String(),
		StartHour:  m.rules.StartHour,
		EndHour:    m.rules.EndHour,
		Minutes:    m.timeVal,
		FinishedAt: m.finishedAt,
		Turns:      m.turn,
		Dims:       m.dims,
		Foyer:      pos(m.foyer),
		Murderer:   m.players[m.murderer].name,
		Alive:      m.AlivePlayers(),
		Digest:     m.Digest(),
		Players:    make([]PlayerView, 0, len(m.players)),
		Items:      make([]ItemView, 0, len(m.items)),
	}

	holders := map[ItemID]string{}
	for _, p := range m.players {
		cf.Players = append(cf.Players, PlayerView{
			Name:     p.name,
			Murderer: p.murderer,
			Alive:    p.alive,
			Pos:      pos(p.loc),
			Room:     m.Room(p.loc).name,
			Item:     m.itemName(p.held),
		})
		if p.held != NoItem {
			holders[p.held] = p.name
		}
	}
	for id, it := range m.items {
		cf.Items = append(cf.Items, ItemView{Name: it.name, Location: it.location, Marked: it.marked, Holder: holders[ItemID(id)]})
	}
	for x, row := range m.grid {
		for y, r := range row {
			v := RoomView{
				Name:        r.name,
				Pos:         [2]int{x, y},
				DoorWeights: r.weights,
				DoorCosts:   r.costs,
				People:      make([]string, 0, len(r.people)),
				Items:       make([]string, 0, len(r.items)),
			}
			for _, id := range r.people {
				v.People = append(v.People, m.players[id].name)
			}
			for _, id := range r.items {
				v.Items = append(v.Items, m.items[id].name)
			}
			cf.Rooms = append(cf.Rooms, v)
		}
	}
	return cf
}

// Summary is the end-of-evening report.
type Summary struct {
	Clock           string `json:"clock"`
	Murdered        int    `json:"murdered"`
	Alive           int    `json:"alive"`
	MurdererEscaped bool   `json:"murderer_escaped"`
}

// Summary reports the wall-clock time reached, how many were murdered and
// whether the murderer got away (no more than one survivor).
func (m *Mansion) Summary() Summary {
	alive := m.AlivePlayers()
	return Summary{
		Clock:           Clock(m.rules.StartHour, m.timeVal),
		Murdered:        len(m.players) - alive,
		Alive:           alive,
		MurdererEscaped: alive <= 1,
	}
}

// Clock formats an elapsed minute as an evening time, e.g. "10:45pm".
func Clock(startHour, minutes int) string {
	return fmt.Sprintf("%d:%02dpm", startHour+minutes/60, minutes%60)
}
