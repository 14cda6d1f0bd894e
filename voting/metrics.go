// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type serviceMetrics struct {
	submissions   *prometheus.CounterVec
	votesRecorded prometheus.Counter
	votersCreated prometheus.Counter
	duration      prometheus.Histogram
}

func newServiceMetrics(reg prometheus.Registerer) *serviceMetrics {
	promautoFactory := promauto.With(reg)
	return &serviceMetrics{
		submissions: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "safeballot_vote_submissions_total",
			Help: "vote submissions by result",
		}, []string{"result"}),
		votesRecorded: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "safeballot_votes_recorded_total",
			Help: "vote rows committed",
		}),
		votersCreated: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "safeballot_voters_created_total",
			Help: "voters created implicitly by vote submission",
		}),
		duration: promautoFactory.NewHistogram(prometheus.HistogramOpts{
			Name:    "safeballot_vote_submission_duration_seconds",
			Help:    "time spent handling a vote submission",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *serviceMetrics) observe(res SubmitVoteResult, err error, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
	m.submissions.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return
	}
	m.votesRecorded.Add(float64(res.VotesCount))
	if res.VoterCreated {
		m.votersCreated.Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrVerificationRequired):
		return "verification_required"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrBallotNotActive):
		return "ballot_not_active"
	default:
		return "transaction_error"
	}
}
