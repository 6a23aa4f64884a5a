package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/telemetry"
	"github.com/samdwyer/deepvein/internal/world"
)

// Direction is one of the four movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Delta returns the x and y offsets of one step in this direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection maps the WASD keys to a direction.
func ParseDirection(key rune) (Direction, bool) {
	switch key {
	case 'w':
		return DirUp, true
	case 's':
		return DirDown, true
	case 'a':
		return DirLeft, true
	case 'd':
		return DirRight, true
	default:
		return 0, false
	}
}

// MoveOutcome describes what a move command did.
type MoveOutcome int

const (
	// OutcomeBlocked: the target is off the map. Nothing is charged.
	OutcomeBlocked MoveOutcome = iota
	// OutcomeMoved: the player walked onto an empty tile.
	OutcomeMoved
	// OutcomeMined: the player mined an ore tile and stepped onto it.
	OutcomeMined
	// OutcomeTooHard: the pickaxe cannot mine this ore. A turn is still charged.
	OutcomeTooHard
	// OutcomeBackpackFull: no room for more ore. A turn is still charged.
	OutcomeBackpackFull
	// OutcomeLevelChanged: the player went through a level door. Free.
	OutcomeLevelChanged
	// OutcomeTown: the player stepped onto the town portal.
	OutcomeTown
)

// String returns a human-readable outcome name.
func (o MoveOutcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeMoved:
		return "moved"
	case OutcomeMined:
		return "mined"
	case OutcomeTooHard:
		return "too_hard"
	case OutcomeBackpackFull:
		return "backpack_full"
	case OutcomeLevelChanged:
		return "level_changed"
	case OutcomeTown:
		return "town"
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of one move command.
type MoveResult struct {
	Outcome MoveOutcome
	Ore     *gamedata.OreDef // Ore involved, for mining outcomes
	Rolled  int              // Raw yield roll
	Gained  int              // Pieces actually added after the capacity cap
	Charged bool             // Whether a turn was spent
	Town    *TownReport      // Set when the move ended in town
	Message string
}

// Move resolves one direction command in the mine.
func (s *Session) Move(ctx context.Context, dir Direction) MoveResult {
	ctx, span := telemetry.Tracer("mine").Start(ctx, "mine.move")
	defer span.End()

	res := s.move(ctx, dir)

	span.SetAttributes(
		attribute.String("direction", dir.String()),
		attribute.String("outcome", res.Outcome.String()),
		attribute.Int("gained", res.Gained),
		attribute.Int("turns_left", s.Player.TurnsLeft),
	)
	s.log.Debug("move", "dir", dir.String(), "outcome", res.Outcome.String(),
		"x", s.Player.Pos.X, "y", s.Player.Pos.Y, "turns_left", s.Player.TurnsLeft)
	return res
}

func (s *Session) move(ctx context.Context, dir Direction) MoveResult {
	dx, dy := dir.Delta()
	target := s.Player.Pos.Add(dx, dy)
	grid := s.Map()

	tile, ok := grid.At(target.X, target.Y)
	if !ok {
		return MoveResult{Outcome: OutcomeBlocked, Message: "You can't go that way."}
	}

	var res MoveResult
	switch {
	case tile == world.TileTown:
		report := s.ReturnToTown(ctx)
		return MoveResult{Outcome: OutcomeTown, Town: &report, Message: "You step through the portal back to town."}

	case tile == world.TileDoor:
		next := s.LevelDef().Next
		if err := s.switchLevel(next); err != nil {
			s.log.Warn("level door leads nowhere", "level", s.Level, "error", err)
			return MoveResult{Outcome: OutcomeBlocked, Message: "The door is sealed shut."}
		}
		return MoveResult{
			Outcome: OutcomeLevelChanged,
			Message: fmt.Sprintf("You descend to %s.", s.LevelDef().Name),
		}

	case tile.IsOre():
		res = s.mine(target, tile)

	default:
		s.Player.MoveTo(target)
		s.reveal()
		res = MoveResult{Outcome: OutcomeMoved}
	}

	s.Player.SpendTurn()
	res.Charged = true
	if s.Player.TurnsLeft <= 0 {
		report := s.ReturnToTown(ctx)
		res.Town = &report
		res.Message = joinMessages(res.Message, "You are exhausted. You place your portal stone here and zap back to town.")
	}
	return res
}

// mine resolves stepping into an ore tile. The caller charges the turn.
func (s *Session) mine(target world.Point, tile world.Tile) MoveResult {
	ore := s.Ores.GetByTile(tile)
	if ore == nil {
		s.Player.MoveTo(target)
		s.reveal()
		return MoveResult{Outcome: OutcomeMoved}
	}

	if !s.Player.CanMine(s.Ores.Tier(ore.ID)) {
		return MoveResult{
			Outcome: OutcomeTooHard,
			Ore:     ore,
			Message: fmt.Sprintf("Your pickaxe is not strong enough to mine %s.", ore.Name),
		}
	}
	if s.Player.FreeSpace() == 0 {
		return MoveResult{
			Outcome: OutcomeBackpackFull,
			Ore:     ore,
			Message: "You can't carry any more, so you can't go that way.",
		}
	}

	rolled := s.Ores.RollYield(ore, s.dice)
	gained := min(rolled, s.Player.FreeSpace())
	s.Player.Carried.Add(ore.ID, gained)
	s.Map().Set(target.X, target.Y, world.TileFloor)
	s.recordMined(target, tile)
	s.Player.MoveTo(target)
	s.reveal()

	msg := fmt.Sprintf("You mined %d piece(s) of %s.", rolled, ore.Name)
	if gained < rolled {
		msg += fmt.Sprintf(" ...but you can only carry %d more piece(s)!", gained)
	}
	return MoveResult{Outcome: OutcomeMined, Ore: ore, Rolled: rolled, Gained: gained, Message: msg}
}

func joinMessages(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
