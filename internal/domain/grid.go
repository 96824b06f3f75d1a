package domain

import (
	"encoding/json"
	"fmt"
)

// GridSize is the width and height of a bowl.
const GridSize = 3

// Grid is a 3x3 bowl layout indexed [row][col]. An empty string is an empty cell.
type Grid [GridSize][GridSize]string

// Coord addresses a grid cell as {x, y}, that is grid[y][x].
type Coord struct {
	X int
	Y int
}

// Valid reports whether the coordinate lies inside the grid.
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

// UnmarshalJSON accepts the [x, y] array form used by the content tables.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(xy))
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}

// MarshalJSON emits the [x, y] array form.
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

// Pair is an unordered couple of ingredient ids.
type Pair [2]string

// Matches reports whether the pair equals {a, b} in either order.
func (p Pair) Matches(a, b string) bool {
	return (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a)
}

// At returns the cell at c.
func (g Grid) At(c Coord) string {
	return g[c.Y][c.X]
}

// Center returns the middle cell.
func (g Grid) Center() string {
	return g[GridSize/2][GridSize/2]
}

// PlacedIngredients returns the non-empty cells in row-major order.
func (g Grid) PlacedIngredients() []string {
	placed := make([]string, 0, GridSize*GridSize)
	for _, row := range g {
		for _, cell := range row {
			if cell != "" {
				placed = append(placed, cell)
			}
		}
	}
	return placed
}

// EmptyCount returns the number of empty cells.
func (g Grid) EmptyCount() int {
	return GridSize*GridSize - len(g.PlacedIngredients())
}

// AdjacentPairs pairs every occupied cell with its occupied right and lower
// neighbours, so each physical adjacency appears once.
func (g Grid) AdjacentPairs() []Pair {
	var pairs []Pair
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			cell := g[y][x]
			if cell == "" {
				continue
			}
			if x+1 < GridSize && g[y][x+1] != "" {
				pairs = append(pairs, Pair{cell, g[y][x+1]})
			}
			if y+1 < GridSize && g[y+1][x] != "" {
				pairs = append(pairs, Pair{cell, g[y+1][x]})
			}
		}
	}
	return pairs
}

// MarshalJSON encodes empty cells as null.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]*string, GridSize)
	for y := range g {
		rows[y] = make([]*string, GridSize)
		for x := range g[y] {
			if g[y][x] != "" {
				cell := g[y][x]
				rows[y][x] = &cell
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes a 3x3 array of ingredient ids or nulls and rejects any other shape.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != GridSize {
		return fmt.Errorf("grid must have %d rows, got %d", GridSize, len(rows))
	}
	var out Grid
	for y, row := range rows {
		if len(row) != GridSize {
			return fmt.Errorf("grid row %d must have %d cells, got %d", y, GridSize, len(row))
		}
		for x, cell := range row {
			if cell != nil {
				out[y][x] = *cell
			}
		}
	}
	*g = out
	return nil
}
