package mansion

import "fmt"

// Coordinates address a grid cell. Row grows southward, Col grows eastward.
type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinates) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Direction indexes a room's door arrays.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Step returns the neighbouring cell through door d. It does not bounds-check.
func (c Coordinates) Step(d Direction) Coordinates {
	switch d {
	case North:
		c.Row--
	case South:
		c.Row++
	case East:
		c.Col++
	case West:
		c.Col--
	}
	return c
}

// Dims is the grid size: Rows x Cols.
type Dims struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (d Dims) Contains(c Coordinates) bool {
	return c.Row >= 0 && c.Row < d.Rows && c.Col >= 0 && c.Col < d.Cols
}

// hasDoor reports whether door dir of cell c leads inside the grid.
func (d Dims) hasDoor(c Coordinates, dir Direction) bool {
	switch dir {
	case North:
		return c.Row != 0
	case South:
		return c.Row != d.Rows-1
	case East:
		return c.Col != d.Cols-1
	case West:
		return c.Col != 0
	}
	return false
}

func adjacent(a, b Coordinates) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return dr*dr+dc*dc == 1
}
