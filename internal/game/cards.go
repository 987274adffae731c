package game

// Card helpers over deck indices 0..51: rank = c % 13 (0 = Ace .. 12 = King),
// suit = c / 13.

var rankNames = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suitNames = [4]string{"S", "H", "D", "C"}

// CardRank returns the rank index 0..12 (Ace..King).
func CardRank(c int) int { return c % 13 }

// CardSuit returns the suit index 0..3.
func CardSuit(c int) int { return c / 13 }

// CardValue returns the hi-lo ordering value 1..13, Ace low.
func CardValue(c int) int { return CardRank(c) + 1 }

// CardName renders a card like "AS" or "10D".
func CardName(c int) string {
	return rankNames[CardRank(c)] + suitNames[CardSuit(c)]
}

// blackjackCardValue is the hard value of one card: Ace counts 1 here,
// face cards 10.
func blackjackCardValue(c int) int {
	r := CardRank(c)
	switch {
	case r == 0:
		return 1
	case r >= 9:
		return 10
	default:
		return r + 1
	}
}

// HandTotal returns the best blackjack total of a hand and whether that
// total counts an ace as 11 (a soft hand).
func HandTotal(hand []int) (total int, soft bool) {
	aces := 0
	for _, c := range hand {
		v := blackjackCardValue(c)
		if v == 1 {
			aces++
		}
		total += v
	}
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func IsBlackjack(hand []int) bool {
	if len(hand) != 2 {
		return false
	}
	total, _ := HandTotal(hand)
	return total == 21
}

// IsBust reports a total over 21.
func IsBust(hand []int) bool {
	total, _ := HandTotal(hand)
	return total > 21
}
