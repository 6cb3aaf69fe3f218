package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// 1) Word progression
	WordsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordquest_words_completed_total",
		Help: "First-time word completions across all users and levels.",
	})

	WordsMasteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordquest_words_mastered_total",
		Help: "First-time word masteries across all users and levels.",
	})

	// 2) Quiz outcomes
	QuizSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordquest_quiz_submissions_total",
		Help: "Scored quiz submissions, partitioned by outcome.",
	}, []string{"passed"})

	QuizScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordquest_quiz_score_percent",
		Help:    "Distribution of quiz score percentages.",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	// 3) Level gate
	LevelsUnlockedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordquest_levels_unlocked_total",
		Help: "Levels unlocked, by path (sequential or admin).",
	}, []string{"path"})

	// 4) Reward ledger
	RewardsGrantedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordquest_rewards_granted_total",
		Help: "Reward grants applied to ledgers, by reward type.",
	}, []string{"type"})

	CoinsDeductedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordquest_coins_deducted_total",
		Help: "Coins spent by users.",
	})

	CoinDeductionsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordquest_coin_deductions_rejected_total",
		Help: "Coin deductions rejected for insufficient balance.",
	})

	// 5) Lock contention
	LockWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordquest_lock_wait_seconds",
		Help:    "Time spent waiting for a per-record lock.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		WordsCompletedTotal,
		WordsMasteredTotal,
		QuizSubmissionsTotal,
		QuizScore,
		LevelsUnlockedTotal,
		RewardsGrantedTotal,
		CoinsDeductedTotal,
		CoinDeductionsRejectedTotal,
		LockWaitSeconds,
	)
}
