package game

// DealerStandsOn is the score at which the dealer stops drawing.
const DealerStandsOn = 17

// DealerShouldHit applies the fixed house policy: draw below 17, stand on
// 17 or more (soft 17 included).
func DealerShouldHit(h Hand) bool {
	return h.Score() < DealerStandsOn
}

// compare settles two standing hands. The player has not bust.
func compare(player, dealer Hand) Outcome {
	if dealer.IsBust() {
		return Win
	}
	ps, ds := player.Score(), dealer.Score()
	switch {
	case ps > ds:
		return Win
	case ps < ds:
		return Loss
	default:
		return Push
	}
}
