package game

import "testing"

func TestEvaluateHand(t *testing.T) {
	cases := []struct {
		name string
		hand []int
		want string
	}{
		{"royal flush", []int{card(0, 0), card(9, 0), card(10, 0), card(11, 0), card(12, 0)}, VPRoyalFlush},
		{"straight flush", []int{card(4, 1), card(5, 1), card(6, 1), card(7, 1), card(8, 1)}, VPStraightFlush},
		{"wheel straight flush", []int{card(0, 2), card(1, 2), card(2, 2), card(3, 2), card(4, 2)}, VPStraightFlush},
		{"four of a kind", []int{card(7, 0), card(7, 1), card(7, 2), card(7, 3), card(2, 0)}, VPFourOfAKind},
		{"full house", []int{card(7, 0), card(7, 1), card(7, 2), card(2, 0), card(2, 1)}, VPFullHouse},
		{"flush", []int{card(1, 3), card(4, 3), card(6, 3), card(9, 3), card(12, 3)}, VPFlush},
		{"broadway straight", []int{card(0, 0), card(9, 1), card(10, 2), card(11, 3), card(12, 0)}, VPStraight},
		{"wheel straight", []int{card(0, 0), card(1, 1), card(2, 2), card(3, 3), card(4, 0)}, VPStraight},
		{"three of a kind", []int{card(4, 0), card(4, 1), card(4, 2), card(8, 0), card(11, 1)}, VPThreeOfAKind},
		{"two pair", []int{card(4, 0), card(4, 1), card(8, 0), card(8, 1), card(11, 2)}, VPTwoPair},
		{"pair of jacks", []int{card(10, 0), card(10, 1), card(2, 0), card(5, 1), card(8, 2)}, VPJacksOrBetter},
		{"pair of aces", []int{card(0, 0), card(0, 1), card(2, 0), card(5, 1), card(8, 2)}, VPJacksOrBetter},
		{"low pair pays nothing", []int{card(9, 0), card(9, 1), card(2, 0), card(5, 1), card(7, 2)}, VPNothing},
		{"no pair", []int{card(1, 0), card(4, 1), card(6, 2), card(9, 3), card(12, 0)}, VPNothing},
	}
	for _, tc := range cases {
		if got := EvaluateHand(tc.hand); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestVideoPokerPaytable(t *testing.T) {
	cases := []struct {
		rank string
		want float64
	}{
		{VPRoyalFlush, 800},
		{VPStraightFlush, 50},
		{VPFourOfAKind, 25},
		{VPFullHouse, 9},
		{VPFlush, 6},
		{VPStraight, 4},
		{VPThreeOfAKind, 3},
		{VPTwoPair, 2},
		{VPJacksOrBetter, 1},
		{VPNothing, 0},
	}
	for _, tc := range cases {
		if got := VideoPokerPayout(tc.rank); got != tc.want {
			t.Errorf("%s pays %v, want %v", tc.rank, got, tc.want)
		}
	}
}
