package game

import "sort"

// Jacks-or-Better hand ranks.
const (
	VPRoyalFlush    = "royal_flush"
	VPStraightFlush = "straight_flush"
	VPFourOfAKind   = "four_of_a_kind"
	VPFullHouse     = "full_house"
	VPFlush         = "flush"
	VPStraight      = "straight"
	VPThreeOfAKind  = "three_of_a_kind"
	VPTwoPair       = "two_pair"
	VPJacksOrBetter = "jacks_or_better"
	VPNothing       = "nothing"
)

// vpPaytable is the fixed Jacks-or-Better paytable.
var vpPaytable = map[string]float64{
	VPRoyalFlush:    800,
	VPStraightFlush: 50,
	VPFourOfAKind:   25,
	VPFullHouse:     9,
	VPFlush:         6,
	VPStraight:      4,
	VPThreeOfAKind:  3,
	VPTwoPair:       2,
	VPJacksOrBetter: 1,
	VPNothing:       0,
}

// VideoPokerPayout returns the paytable multiplier for a hand rank.
func VideoPokerPayout(rank string) float64 {
	return vpPaytable[rank]
}

// EvaluateHand classifies a final 5-card hand. The wheel (A-2-3-4-5) counts
// as a straight; only J/Q/K/A pairs pay.
func EvaluateHand(hand []int) string {
	counts := map[int]int{}
	suits := map[int]int{}
	for _, c := range hand {
		counts[CardRank(c)]++
		suits[CardSuit(c)]++
	}

	flush := len(suits) == 1
	straight, aceHigh := isStraight(counts)

	switch {
	case flush && straight && aceHigh:
		return VPRoyalFlush
	case flush && straight:
		return VPStraightFlush
	}

	var pairs, trips, quads int
	var pairRanks []int
	for rank, n := range counts {
		switch n {
		case 4:
			quads++
		case 3:
			trips++
		case 2:
			pairs++
			pairRanks = append(pairRanks, rank)
		}
	}

	switch {
	case quads == 1:
		return VPFourOfAKind
	case trips == 1 && pairs == 1:
		return VPFullHouse
	case flush:
		return VPFlush
	case straight:
		return VPStraight
	case trips == 1:
		return VPThreeOfAKind
	case pairs == 2:
		return VPTwoPair
	case pairs == 1 && isPayingPair(pairRanks[0]):
		return VPJacksOrBetter
	default:
		return VPNothing
	}
}

// isPayingPair: jacks (10), queens (11), kings (12) or aces (0).
func isPayingPair(rank int) bool {
	return rank == 0 || rank >= 10
}

func isStraight(counts map[int]int) (straight, aceHigh bool) {
	if len(counts) != 5 {
		return false, false
	}
	ranks := make([]int, 0, 5)
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	// Broadway: 10-J-Q-K with the ace on top.
	if ranks[0] == 0 && ranks[1] == 9 && ranks[2] == 10 && ranks[3] == 11 && ranks[4] == 12 {
		return true, true
	}
	for i := 1; i < 5; i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false, false
		}
	}
	return true, false
}
