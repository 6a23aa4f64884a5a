package game

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/entity"
	"github.com/samdwyer/deepvein/internal/telemetry"
	"github.com/samdwyer/deepvein/internal/world"
)

// TownReport summarises one return to town.
type TownReport struct {
	Deposited   entity.Stock // Ore moved from the backpack into the warehouse
	Replenished []MinedNode  // Mined-out tiles that regrew
	Day         int          // The new day
	Won         bool         // GP reached the win threshold
}

// ReturnToTown is the portal transition: the portal is set to the current
// position, carried ore goes to the warehouse, a new day starts and some
// mined-out tiles regrow. It cannot fail.
func (s *Session) ReturnToTown(ctx context.Context) TownReport {
	_, span := telemetry.Tracer("town").Start(ctx, "town.return")
	defer span.End()

	p := s.Player
	p.Portal = p.Pos
	p.PortalLevel = s.Level
	deposited := p.Deposit()
	p.MoveTo(s.Rules.TownAnchor)
	p.Day++
	p.TurnsLeft = s.Rules.TurnsPerDay
	replenished := s.replenish()
	s.reveal()

	report := TownReport{
		Deposited:   deposited,
		Replenished: replenished,
		Day:         p.Day,
		Won:         s.HasWon(),
	}

	span.SetAttributes(
		attribute.Int("day", p.Day),
		attribute.Int("deposited", deposited.Total()),
		attribute.Int("replenished", len(replenished)),
		attribute.Bool("won", report.Won),
	)
	s.log.Info("returned to town", "day", p.Day, "deposited", deposited.Total(),
		"replenished", len(replenished), "gp", p.GP)
	return report
}

// replenish gives every outstanding mined node an independent chance to
// regrow. A node only regrows into an empty tile, and leaves the list
// exactly when it does. The portal cell never regrows, so the player is
// not set down on top of a vein.
func (s *Session) replenish() []MinedNode {
	var restored []MinedNode
	kept := s.Mined[:0]
	for _, node := range s.Mined {
		if !s.underPortal(node) && s.dice.Intn(100) < s.Rules.ReplenishPercent && s.restore(node) {
			restored = append(restored, node)
			continue
		}
		kept = append(kept, node)
	}
	s.Mined = kept
	return restored
}

func (s *Session) underPortal(node MinedNode) bool {
	return node.Level == s.Player.PortalLevel && node.Pos == s.Player.Portal
}

func (s *Session) restore(node MinedNode) bool {
	grid, ok := s.Levels[node.Level]
	if !ok {
		return false
	}
	tile, ok := grid.At(node.Pos.X, node.Pos.Y)
	if !ok || tile != world.TileFloor {
		return false
	}
	grid.Set(node.Pos.X, node.Pos.Y, node.Ore)
	return true
}

// EnterMine sends the player from town to their portal, making the
// portal's level active first if the player left the mine on another one.
func (s *Session) EnterMine() {
	p := s.Player
	if p.PortalLevel != "" && p.PortalLevel != s.Level {
		if err := s.activate(p.PortalLevel); err != nil {
			s.log.Warn("portal level missing", "level", p.PortalLevel, "error", err)
		}
	}
	p.MoveTo(p.Portal)
	s.reveal()
	s.log.Debug("entered mine", "level", s.Level, "x", p.Pos.X, "y", p.Pos.Y)
}
