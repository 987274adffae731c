package service

import "github.com/prometheus/client_golang/prometheus"

var (
	roundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rounds_total",
			Help: "Settled rounds by game and result",
		},
		[]string{"game", "result"},
	)
	wageredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_wagered_total",
			Help: "Total amount staked by game",
		},
		[]string{"game"},
	)
	payoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_payout_total",
			Help: "Total amount paid out by game",
		},
		[]string{"game"},
	)
	jackpotContribTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_jackpot_contributions_total",
			Help: "Total amount skimmed into jackpot pools",
		},
	)
	jackpotWinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_jackpot_wins_total",
			Help: "Jackpot awards by tier",
		},
		[]string{"tier"},
	)
	unsettledFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_unsettled_faults_total",
			Help: "Rounds whose settlement outcome is ambiguous after a charged stake",
		},
	)
)

func init() {
	prometheus.MustRegister(roundsTotal)
	prometheus.MustRegister(wageredTotal)
	prometheus.MustRegister(payoutTotal)
	prometheus.MustRegister(jackpotContribTotal)
	prometheus.MustRegister(jackpotWinsTotal)
	prometheus.MustRegister(unsettledFaults)
}

func observeRound(game string, win bool, bet, payout float64) {
	result := "lose"
	if win {
		result = "win"
	}
	roundsTotal.WithLabelValues(game, result).Inc()
	wageredTotal.WithLabelValues(game).Add(bet)
	if payout > 0 {
		payoutTotal.WithLabelValues(game).Add(payout)
	}
}
