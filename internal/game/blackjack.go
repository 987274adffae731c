package game

// Blackjack per-hand settlement results.
const (
	BJResultBlackjack = "blackjack"
	BJResultWin       = "win"
	BJResultPush      = "push"
	BJResultLose      = "lose"
	BJResultBust      = "bust"
)

// BlackjackMaxHands caps splitting.
const BlackjackMaxHands = 4

// BlackjackPayout multipliers on the per-hand stake.
const (
	BJPayoutNatural = 2.5 // 3:2 on the stake, stake returned
	BJPayoutWin     = 2.0
	BJPayoutPush    = 1.0
)

// DealerPlay draws onto the dealer hand while its total is below 17. The
// dealer stands on every 17, soft included; the drawing loop checks the
// total only. Returns the finished hand and the advanced deck cursor.
func DealerPlay(deck []int, cursor int, hand []int) ([]int, int) {
	out := append([]int(nil), hand...)
	for {
		total, _ := HandTotal(out)
		if total >= 17 || cursor >= len(deck) {
			return out, cursor
		}
		out = append(out, deck[cursor])
		cursor++
	}
}

// SettleHand scores one player hand against the finished dealer hand and
// returns the result label plus the payout multiplier on that hand's stake.
// Naturals are settled at deal time, not here.
func SettleHand(player, dealer []int) (string, float64) {
	if IsBust(player) {
		return BJResultBust, 0
	}
	pt, _ := HandTotal(player)
	dt, _ := HandTotal(dealer)
	switch {
	case IsBust(dealer) || pt > dt:
		return BJResultWin, BJPayoutWin
	case pt == dt:
		return BJResultPush, BJPayoutPush
	default:
		return BJResultLose, 0
	}
}

// CanDouble reports whether the hand may be doubled: an untouched two-card
// hand only.
func CanDouble(hand []int) bool {
	return len(hand) == 2
}

// CanSplit reports whether the hand may be split given the current hand
// count: exactly two cards of equal rank and room for another hand.
func CanSplit(hand []int, totalHands int) bool {
	return len(hand) == 2 &&
		CardRank(hand[0]) == CardRank(hand[1]) &&
		totalHands < BlackjackMaxHands
}
