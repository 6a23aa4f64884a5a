package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/deepvein/internal/entity"
	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/scores"
	"github.com/samdwyer/deepvein/internal/world"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// ErrBadSnapshot is returned when a saved blob cannot be restored.
var ErrBadSnapshot = errors.New("bad snapshot")

// Snapshot is the saved form of a session plus the high-score ledger.
type Snapshot struct {
	ID      string              `json:"id"`
	Version int                 `json:"version"`
	SavedAt time.Time           `json:"savedAt"`
	Player  *entity.Player      `json:"player"`
	Level   string              `json:"level"`
	Levels  map[string][]string `json:"levels"`
	Fog     []string            `json:"fog"`
	Mined   []MinedNode         `json:"mined"`
	Scores  []scores.Record     `json:"scores"`
}

// Snapshot captures the session and ledger at this moment.
func (s *Session) Snapshot(ledger *scores.Ledger, now time.Time) *Snapshot {
	levels := make(map[string][]string, len(s.Levels))
	for key, g := range s.Levels {
		levels[key] = g.Lines()
	}

	player := *s.Player
	player.Carried = s.Player.Carried.Clone()
	player.Warehouse = s.Player.Warehouse.Clone()

	snap := &Snapshot{
		ID:      uuid.NewString(),
		Version: SnapshotVersion,
		SavedAt: now.UTC(),
		Player:  &player,
		Level:   s.Level,
		Levels:  levels,
		Fog:     s.Fog.Lines(),
		Mined:   append([]MinedNode(nil), s.Mined...),
	}
	if ledger != nil {
		snap.Scores = ledger.Records()
	}
	return snap
}

// Marshal encodes the snapshot.
func (snap *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(snap)
}

// UnmarshalSnapshot decodes a blob written by Marshal.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadSnapshot, snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// Restore rebuilds a session from the snapshot.
func (snap *Snapshot) Restore(rules *gamedata.Rules, dice gamedata.Dice, logger *slog.Logger) (*Session, error) {
	if snap.Player == nil {
		return nil, fmt.Errorf("%w: no player", ErrBadSnapshot)
	}
	if rules.Level(snap.Level) == nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrBadSnapshot, ErrUnknownLevel, snap.Level)
	}

	levels := make(map[string]*world.Grid, len(snap.Levels))
	for key, lines := range snap.Levels {
		if rules.Level(key) == nil {
			return nil, fmt.Errorf("%w: %w: %s", ErrBadSnapshot, ErrUnknownLevel, key)
		}
		g, err := world.GridFromLines(lines)
		if err != nil {
			return nil, fmt.Errorf("%w: level %s: %w", ErrBadSnapshot, key, err)
		}
		levels[key] = g
	}
	active, ok := levels[snap.Level]
	if !ok {
		return nil, fmt.Errorf("%w: missing grid for %s", ErrBadSnapshot, snap.Level)
	}

	fog := world.FogFromLines(snap.Fog)
	if fog.Width != active.Width || fog.Height != active.Height {
		fog = world.NewFogFor(active)
	}

	player := *snap.Player
	if player.Carried == nil {
		player.Carried = entity.Stock{}
	}
	if player.Warehouse == nil {
		player.Warehouse = entity.Stock{}
	}
	if player.PortalLevel == "" {
		player.PortalLevel = snap.Level
	}
	if err := checkPlayer(&player, rules, snap.Level, levels); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	s := &Session{
		Rules:  rules,
		Ores:   rules.Registry(),
		Player: &player,
		Level:  snap.Level,
		Levels: levels,
		Fog:    fog,
		Mined:  append([]MinedNode(nil), snap.Mined...),
		dice:   dice,
		log:    logger,
	}
	return s, nil
}

// checkPlayer rejects player state that no sequence of moves can produce.
func checkPlayer(p *entity.Player, rules *gamedata.Rules, level string, levels map[string]*world.Grid) error {
	switch {
	case p.Pickaxe < 1 || p.Pickaxe > rules.MaxPickaxe():
		return fmt.Errorf("pickaxe %d outside 1..%d", p.Pickaxe, rules.MaxPickaxe())
	case p.Capacity < 1:
		return fmt.Errorf("capacity %d", p.Capacity)
	case p.GP < 0 || p.Steps < 0 || p.TurnsLeft < 0 || p.Day < 1:
		return fmt.Errorf("counters gp=%d steps=%d turns=%d day=%d", p.GP, p.Steps, p.TurnsLeft, p.Day)
	}

	ores := rules.Registry()
	for name, stock := range map[string]entity.Stock{"carried": p.Carried, "warehouse": p.Warehouse} {
		for id, n := range stock {
			if ores.GetByID(id) == nil || n < 0 {
				return fmt.Errorf("%s %s=%d", name, id, n)
			}
		}
	}

	if !onMap(levels[level], p.Pos, rules.TownAnchor) {
		return fmt.Errorf("position %v is off level %s", p.Pos, level)
	}
	portal, ok := levels[p.PortalLevel]
	if !ok {
		return fmt.Errorf("%w: portal on %s", ErrUnknownLevel, p.PortalLevel)
	}
	if !onMap(portal, p.Portal, rules.TownAnchor) {
		return fmt.Errorf("portal %v is off level %s", p.Portal, p.PortalLevel)
	}
	return nil
}

// onMap reports whether pos is a defined cell of g. The town anchor always
// counts, since the player stands there between trips.
func onMap(g *world.Grid, pos, anchor world.Point) bool {
	return pos == anchor || g.Defined(pos.X, pos.Y)
}
