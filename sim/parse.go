package sim

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseArena reads a rectangular map of '#' walls, '.' open cells and the two
// faction markers from cfg. Each marker becomes a combatant on an open cell
// with its faction's starting hit points and attack power. Trailing blank
// lines are ignored; '\r' line endings are accepted.
func ParseArena(r io.Reader, cfg ArenaConfig) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, &ParseError{Err: ErrEmptyMap}
	}

	cols := len(lines[0])
	grid := NewGrid(len(lines), cols)
	var units []Combatant
	for row, line := range lines {
		if len(line) != cols {
			return nil, &ParseError{Line: row + 1, Err: fmt.Errorf("%w: want %d columns, got %d", ErrRaggedRows, cols, len(line))}
		}
		for col := 0; col < len(line); col++ {
			pos := Position{Row: row, Col: col}
			switch ch := line[col]; ch {
			case '#':
				grid.Set(pos, CellWall)
			case '.':
			case cfg.A.Marker:
				units = append(units, Combatant{Faction: FactionA, Pos: pos, HP: cfg.A.HitPoints, Power: cfg.A.AttackPower})
			case cfg.B.Marker:
				units = append(units, Combatant{Faction: FactionB, Pos: pos, HP: cfg.B.HitPoints, Power: cfg.B.AttackPower})
			default:
				return nil, &ParseError{Line: row + 1, Col: col + 1, Err: fmt.Errorf("%w %q", ErrUnknownCell, ch)}
			}
		}
	}

	arena, err := NewArena(grid, units, [2]byte{cfg.A.Marker, cfg.B.Marker})
	if err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	for _, f := range Factions {
		if arena.Count(f) == 0 {
			return nil, &ParseError{Err: fmt.Errorf("%w: %s (marker %q)", ErrMissingFaction, f, cfg.For(f).Marker)}
		}
	}
	return arena, nil
}

// ParseArenaString is ParseArena over an in-memory map.
func ParseArenaString(s string, cfg ArenaConfig) (*Arena, error) {
	return ParseArena(strings.NewReader(s), cfg)
}
