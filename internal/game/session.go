package game

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/entity"
	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/telemetry"
	"github.com/samdwyer/deepvein/internal/world"
)

// ErrUnknownLevel is returned when a level key has no definition or map.
var ErrUnknownLevel = errors.New("unknown level")

// MinedNode remembers an ore tile that was mined out, so it can regrow.
type MinedNode struct {
	Level string      `json:"level"`
	Pos   world.Point `json:"pos"`
	Ore   world.Tile  `json:"ore"`
}

// Session is one game in progress: the player, every level's map, the fog
// for the active level and the mined-out tiles waiting to regrow. It is
// owned by a single loop and is not safe for concurrent use.
type Session struct {
	Rules  *gamedata.Rules
	Ores   *gamedata.OreRegistry
	Player *entity.Player
	Level  string                 // Key of the active level
	Levels map[string]*world.Grid // Every level's grid, mutated by mining
	Fog    *world.Fog             // Fog for the active level
	Mined  []MinedNode

	dice gamedata.Dice
	log  *slog.Logger
}

// LoadLevels reads every level's map named by the rules. A failure here is
// fatal to startup.
func LoadLevels(ctx context.Context, rules *gamedata.Rules, fsys fs.FS) (map[string]*world.Grid, error) {
	levels := make(map[string]*world.Grid, len(rules.Levels))
	for _, def := range rules.Levels {
		g, err := world.LoadGrid(ctx, fsys, def.Map)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", def.Key, err)
		}
		levels[def.Key] = g
	}
	return levels, nil
}

// NewSession starts a fresh game for the named player. The given level grids
// are treated as pristine templates and copied, so one set of loaded maps
// can seed any number of games.
func NewSession(ctx context.Context, rules *gamedata.Rules, levels map[string]*world.Grid, name string, dice gamedata.Dice, logger *slog.Logger) (*Session, error) {
	_, span := telemetry.Tracer("game").Start(ctx, "game.new")
	defer span.End()

	if _, ok := levels[rules.StartLevel]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, rules.StartLevel)
	}

	copies := make(map[string]*world.Grid, len(levels))
	for key, g := range levels {
		copies[key] = g.Clone()
	}

	s := &Session{
		Rules:  rules,
		Ores:   rules.Registry(),
		Player: entity.NewPlayer(name, rules),
		Level:  rules.StartLevel,
		Levels: copies,
		dice:   dice,
		log:    logger,
	}
	s.Fog = world.NewFogFor(s.Map())
	s.reveal()

	span.SetAttributes(
		attribute.String("player.name", name),
		attribute.String("level", s.Level),
	)
	s.log.Info("new game", "player", name, "level", s.Level)
	return s, nil
}

// Map returns the active level's grid.
func (s *Session) Map() *world.Grid {
	return s.Levels[s.Level]
}

// LevelDef returns the active level's definition.
func (s *Session) LevelDef() *gamedata.LevelDef {
	return s.Rules.Level(s.Level)
}

// HasWon returns true once the player's GP reaches the win threshold.
func (s *Session) HasWon() bool {
	return s.Player.GP >= s.Rules.WinGP
}

// ViewRadius returns how far the mine view reaches from the player.
func (s *Session) ViewRadius() int {
	if s.Player.HasTorch {
		return s.Rules.TorchViewRadius
	}
	return s.Rules.ViewRadius
}

// reveal uncovers the fog around the player's position.
func (s *Session) reveal() {
	s.Fog.Reveal(s.Map(), s.Player.Pos)
}

// activate makes the given level active with fresh fog.
func (s *Session) activate(key string) error {
	grid, ok := s.Levels[key]
	if s.Rules.Level(key) == nil || !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLevel, key)
	}
	s.Level = key
	s.Fog = world.NewFogFor(grid)
	return nil
}

// switchLevel makes the given level active and places the player at the
// level's entry point.
func (s *Session) switchLevel(key string) error {
	if err := s.activate(key); err != nil {
		return err
	}
	s.Player.MoveTo(s.LevelDef().Entry)
	s.reveal()
	return nil
}

// recordMined tracks a mined-out tile once per coordinate.
func (s *Session) recordMined(pos world.Point, ore world.Tile) {
	for _, node := range s.Mined {
		if node.Level == s.Level && node.Pos == pos {
			return
		}
	}
	s.Mined = append(s.Mined, MinedNode{Level: s.Level, Pos: pos, Ore: ore})
}
