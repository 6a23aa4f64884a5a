package game

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/deepvein/internal/telemetry"
)

// Shop rejections. Each leaves the player unchanged.
var (
	ErrInsufficientFunds = errors.New("not enough GP")
	ErrMaxPickaxe        = errors.New("pickaxe is already the best there is")
	ErrTorchOwned        = errors.New("torch already owned")
)

// Item is something the shop sells.
type Item int

const (
	ItemPickaxe Item = iota
	ItemBackpack
	ItemTorch
)

// String returns the item name.
func (i Item) String() string {
	switch i {
	case ItemPickaxe:
		return "pickaxe"
	case ItemBackpack:
		return "backpack"
	case ItemTorch:
		return "torch"
	default:
		return "unknown"
	}
}

// Offer is one line of the shop menu.
type Offer struct {
	Item      Item
	Key       rune
	Label     string
	Price     int
	Available bool
}

// Price returns the current cost of an item and whether it can be bought
// at all. Availability ignores the player's funds.
func (s *Session) Price(item Item) (int, bool) {
	p := s.Player
	switch item {
	case ItemPickaxe:
		if p.Pickaxe >= s.Rules.MaxPickaxe() {
			return 0, false
		}
		return s.Rules.PickaxePrices[p.Pickaxe-1], true
	case ItemBackpack:
		return p.Capacity * 2, true
	case ItemTorch:
		if p.HasTorch {
			return 0, false
		}
		return s.Rules.TorchPrice, true
	default:
		return 0, false
	}
}

// Offers lists the shop's items with their current prices.
func (s *Session) Offers() []Offer {
	p := s.Player
	var offers []Offer

	price, ok := s.Price(ItemPickaxe)
	label := "Pickaxe upgrade (best already owned)"
	if ok {
		next := s.Ores.All()[p.Pickaxe]
		label = fmt.Sprintf("Upgrade pickaxe to level %d to mine %s", p.Pickaxe+1, next.Name)
	}
	offers = append(offers, Offer{Item: ItemPickaxe, Key: 'p', Label: label, Price: price, Available: ok})

	price, ok = s.Price(ItemBackpack)
	offers = append(offers, Offer{
		Item:      ItemBackpack,
		Key:       'b',
		Label:     fmt.Sprintf("Upgrade backpack from %d to %d items", p.Capacity, p.Capacity+s.Rules.CapacityStep),
		Price:     price,
		Available: ok,
	})

	price, ok = s.Price(ItemTorch)
	label = "Magic torch (owned)"
	if ok {
		label = "Buy magic torch"
	}
	offers = append(offers, Offer{Item: ItemTorch, Key: 't', Label: label, Price: price, Available: ok})

	return offers
}

// Buy purchases an item. On any error the player is unchanged.
func (s *Session) Buy(ctx context.Context, item Item) (int, error) {
	_, span := telemetry.Tracer("shop").Start(ctx, "shop.buy")
	defer span.End()
	span.SetAttributes(attribute.String("item", item.String()))

	price, err := s.buy(item)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.log.Debug("purchase rejected", "item", item.String(), "error", err)
		return 0, err
	}

	span.SetAttributes(attribute.Int("price", price), attribute.Int("gp", s.Player.GP))
	s.log.Info("purchase", "item", item.String(), "price", price, "gp", s.Player.GP)
	return price, nil
}

func (s *Session) buy(item Item) (int, error) {
	p := s.Player
	price, ok := s.Price(item)
	if !ok {
		switch item {
		case ItemPickaxe:
			return 0, ErrMaxPickaxe
		case ItemTorch:
			return 0, ErrTorchOwned
		default:
			return 0, fmt.Errorf("unknown item %d", item)
		}
	}
	if p.GP < price {
		return 0, fmt.Errorf("%w: %s costs %d, you have %d", ErrInsufficientFunds, item, price, p.GP)
	}

	p.GP -= price
	switch item {
	case ItemPickaxe:
		p.Pickaxe++
	case ItemBackpack:
		p.Capacity += s.Rules.CapacityStep
	case ItemTorch:
		p.HasTorch = true
	}
	return price, nil
}

// BuyPickaxe raises the pickaxe tier by one.
func (s *Session) BuyPickaxe(ctx context.Context) (int, error) {
	return s.Buy(ctx, ItemPickaxe)
}

// BuyCapacity enlarges the backpack.
func (s *Session) BuyCapacity(ctx context.Context) (int, error) {
	return s.Buy(ctx, ItemBackpack)
}

// BuyTorch buys the magic torch.
func (s *Session) BuyTorch(ctx context.Context) (int, error) {
	return s.Buy(ctx, ItemTorch)
}
