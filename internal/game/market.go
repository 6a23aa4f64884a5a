package game

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/telemetry"
)

// Market rejections.
var (
	ErrNothingToSell = errors.New("nothing to sell")
	ErrUnknownOre    = errors.New("unknown ore")
	ErrStaleQuote    = errors.New("quote no longer matches the warehouse")
)

// Quote is a price offer for the whole warehouse stock of one ore. The price
// is drawn once per quote, so declining and asking again may give a
// different price.
type Quote struct {
	Ore      *gamedata.OreDef
	Quantity int
	Price    int // GP per piece
}

// Total returns the GP the quote pays out.
func (q Quote) Total() int {
	return q.Quantity * q.Price
}

// Quote prices the warehouse stock of the given ore.
func (s *Session) Quote(oreID string) (Quote, error) {
	ore := s.Ores.GetByID(oreID)
	if ore == nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownOre, oreID)
	}
	qty := s.Player.Warehouse[ore.ID]
	if qty <= 0 {
		return Quote{}, fmt.Errorf("%w: you don't have any %s", ErrNothingToSell, ore.Name)
	}
	return Quote{Ore: ore, Quantity: qty, Price: s.Ores.RollPrice(ore, s.dice)}, nil
}

// Sell accepts a quote: the GP is credited and the warehouse slot emptied.
func (s *Session) Sell(ctx context.Context, q Quote) (int, error) {
	_, span := telemetry.Tracer("market").Start(ctx, "market.sell")
	defer span.End()

	if q.Ore == nil || s.Player.Warehouse[q.Ore.ID] != q.Quantity || q.Quantity <= 0 {
		return 0, ErrStaleQuote
	}

	total := q.Total()
	s.Player.GP += total
	s.Player.Warehouse.Take(q.Ore.ID)

	span.SetAttributes(
		attribute.String("ore", q.Ore.ID),
		attribute.Int("quantity", q.Quantity),
		attribute.Int("price", q.Price),
		attribute.Int("total", total),
	)
	s.log.Info("sold ore", "ore", q.Ore.ID, "quantity", q.Quantity, "price", q.Price, "gp", s.Player.GP)
	return total, nil
}
