package game

import (
	"context"
	"errors"
	"testing"
)

func TestBuyPickaxe(t *testing.T) {
	s := newTestSession(t, &fixedDice{})
	ctx := context.Background()
	s.Player.GP = 210

	price, err := s.BuyPickaxe(ctx)
	if err != nil || price != 50 {
		t.Fatalf("BuyPickaxe() = %d, %v; want 50, nil", price, err)
	}
	price, err = s.BuyPickaxe(ctx)
	if err != nil || price != 150 {
		t.Fatalf("BuyPickaxe() = %d, %v; want 150, nil", price, err)
	}
	if s.Player.Pickaxe != 3 || s.Player.GP != 10 {
		t.Errorf("pickaxe/gp = %d/%d, want 3/10", s.Player.Pickaxe, s.Player.GP)
	}

	if _, err := s.BuyPickaxe(ctx); !errors.Is(err, ErrMaxPickaxe) {
		t.Errorf("BuyPickaxe() at max error = %v, want ErrMaxPickaxe", err)
	}
	if s.Player.Pickaxe != 3 || s.Player.GP != 10 {
		t.Errorf("pickaxe/gp after rejection = %d/%d, want 3/10", s.Player.Pickaxe, s.Player.GP)
	}
}

func TestBuyCapacity(t *testing.T) {
	s := newTestSession(t, &fixedDice{})
	ctx := context.Background()
	s.Player.GP = 100

	for _, wantPrice := range []int{20, 24, 28} {
		price, err := s.BuyCapacity(ctx)
		if err != nil || price != wantPrice {
			t.Fatalf("BuyCapacity() = %d, %v; want %d, nil", price, err, wantPrice)
		}
	}
	if s.Player.Capacity != 16 || s.Player.GP != 28 {
		t.Errorf("capacity/gp = %d/%d, want 16/28", s.Player.Capacity, s.Player.GP)
	}
}

func TestBuyTorchOnce(t *testing.T) {
	s := newTestSession(t, &fixedDice{})
	ctx := context.Background()
	s.Player.GP = 120

	if _, err := s.BuyTorch(ctx); err != nil {
		t.Fatalf("BuyTorch() error = %v", err)
	}
	if !s.Player.HasTorch || s.ViewRadius() != 4 {
		t.Errorf("HasTorch = %v ViewRadius = %d, want true, 4", s.Player.HasTorch, s.ViewRadius())
	}
	if _, err := s.BuyTorch(ctx); !errors.Is(err, ErrTorchOwned) {
		t.Errorf("second BuyTorch() error = %v, want ErrTorchOwned", err)
	}
	if s.Player.GP != 70 {
		t.Errorf("GP = %d, want 70", s.Player.GP)
	}
}

func TestBuyInsufficientFundsLeavesPlayerUnchanged(t *testing.T) {
	for _, item := range []Item{ItemPickaxe, ItemBackpack, ItemTorch} {
		t.Run(item.String(), func(t *testing.T) {
			s := newTestSession(t, &fixedDice{})
			s.Player.GP = 19
			before := *s.Player

			_, err := s.Buy(context.Background(), item)

			if !errors.Is(err, ErrInsufficientFunds) {
				t.Fatalf("Buy() error = %v, want ErrInsufficientFunds", err)
			}
			p := s.Player
			if p.GP != before.GP || p.Pickaxe != before.Pickaxe || p.Capacity != before.Capacity || p.HasTorch != before.HasTorch {
				t.Errorf("player changed: %+v", p)
			}
		})
	}
}

func TestOffers(t *testing.T) {
	s := newTestSession(t, &fixedDice{})
	s.Player.Pickaxe = 3
	s.Player.HasTorch = true

	offers := s.Offers()

	if len(offers) != 3 {
		t.Fatalf("len(Offers()) = %d, want 3", len(offers))
	}
	for _, o := range offers {
		wantAvailable := o.Item == ItemBackpack
		if o.Available != wantAvailable {
			t.Errorf("%s available = %v, want %v", o.Item, o.Available, wantAvailable)
		}
	}
}
