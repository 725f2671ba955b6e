// Package metrics 定义业务 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InviteSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptshelf_invite_submissions_total",
			Help: "Invite code submissions by outcome.",
		},
		[]string{"outcome"},
	)

	InviteRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptshelf_invite_redemptions_total",
			Help: "Invite slot redemptions by slot and outcome.",
		},
		[]string{"slot", "outcome"},
	)

	InviteCodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "promptshelf_invite_codes",
			Help: "Invite codes on the board at the last listing.",
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptshelf_rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter.",
		},
		[]string{"limiter"},
	)

	RateLimitClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promptshelf_rate_limit_clients_evicted_total",
			Help: "Idle clients dropped from the in-process limiter.",
		},
	)

	PromptCopies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promptshelf_prompt_copies_total",
			Help: "Prompt template copies recorded.",
		},
	)
)
