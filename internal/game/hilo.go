package game

// Hi-lo guess directions.
const (
	HiLoGuessHigher = "higher"
	HiLoGuessLower  = "lower"
)

// HiLoCounts returns how many of the 13 ranks beat or lose to the given
// card value (1..13, ace low). The pricing deliberately uses the full-deck
// theoretical distribution, not the cards remaining in the shuffled deck.
func HiLoCounts(value int) (higher, lower int) {
	return 13 - value, value - 1
}

// HiLoChance returns the theoretical win probability for a guess on the
// given card value. A zero chance means the guess can never win.
func HiLoChance(value int, guessHigher bool) float64 {
	higher, lower := HiLoCounts(value)
	count := lower
	if guessHigher {
		count = higher
	}
	return float64(count*4) / 52.0
}

// HiLoMultiplier prices one correct guess: (1-houseEdge)/p floored to four
// decimals. ok is false for impossible guesses (higher on a king, lower on
// an ace), which can never pay.
func HiLoMultiplier(value int, guessHigher bool, houseEdge float64) (mult float64, ok bool) {
	p := HiLoChance(value, guessHigher)
	if p == 0 {
		return 0, false
	}
	return FloorMultiplier((1 - houseEdge) / p), true
}

// HiLoCorrect reports whether the next card wins the guess; an equal value
// always loses.
func HiLoCorrect(current, next int, guessHigher bool) bool {
	cv, nv := CardValue(current), CardValue(next)
	if guessHigher {
		return nv > cv
	}
	return nv < cv
}
