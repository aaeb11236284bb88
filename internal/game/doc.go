// Package game implements the blackjack rules engine for a single player
// against the dealer.
//
// The main type is Round, which runs one round from the initial deal through
// the player's decisions and the dealer's fixed drawing policy to settlement.
// Hands are plain card sequences; every value derived from them (score,
// bust, natural) is recomputed from the cards, so reading a score never
// changes it.
//
// # Basic Usage
//
//	d := deck.NewShuffled(randutil.New(seed))
//	r, err := game.Start(d, 20)
//	if err != nil {
//	    // the deck could not cover the initial deal
//	}
//	for r.State() == game.PlayerActing {
//	    // ask the player, then
//	    err = r.Hit() // or r.Stand()
//	}
//	delta := r.Outcome().Delta(r.Bet())
//
// # Deterministic Testing
//
// Use deck.NewStacked to deal a known sequence. Cards are dealt in the order
// player, player, dealer, dealer, then one at a time for every hit and every
// dealer draw.
//
//	d := deck.NewStacked(deck.MustParseCards("Kh7c9s7d8h")...)
//	r, _ := game.Start(d, 50)
//	_ = r.Stand() // dealer draws 8h to 24 and busts
//
// A round never reads global state, so any number of rounds may run side by
// side as long as each owns its deck.
package game
