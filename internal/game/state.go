// Package game provides the mine, town and menu loops and the session state they share.
package game

// State represents the menu the player is currently in.
type State int

const (
	// StateMainMenu is the top-level menu: new game, load, scores, quit.
	StateMainMenu State = iota
	// StateTown is the town hub between mining trips.
	StateTown
	// StateShop is the upgrade shop inside town.
	StateShop
	// StateMarket is the ore selling flow inside town.
	StateMarket
	// StateMine is the turn-by-turn mining loop.
	StateMine
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main_menu"
	case StateTown:
		return "town"
	case StateShop:
		return "shop"
	case StateMarket:
		return "market"
	case StateMine:
		return "mine"
	default:
		return "unknown"
	}
}

// status is what a menu loop reports to the loop that called it.
type status int

const (
	// statusBack returns control to the enclosing menu.
	statusBack status = iota
	// statusComplete means the game was won; the session is over.
	statusComplete
)
