package commands

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// offersTotal counts offer protocol transitions.
	// Labels: outcome (placed, accepted, refused, expired, unmatched)
	offersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multistop",
		Subsystem: "dispatch",
		Name:      "offers_total",
		Help:      "Offer protocol transitions by outcome",
	}, []string{"outcome"})

	// mergesTotal counts pushes and reverts of pending changes.
	// Labels: operation (push, revert)
	mergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multistop",
		Subsystem: "itinerary",
		Name:      "merges_total",
		Help:      "Pushes and reverts of pending itinerary changes",
	}, []string{"operation"})

	// shadowsCreatedTotal counts shadow rows created by edits, including
	// cloned descendants of a step.
	shadowsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "multistop",
		Subsystem: "itinerary",
		Name:      "shadows_created_total",
		Help:      "Shadow rows created for edits of submitted orders",
	})

	// editRetriesTotal counts edits retried after a concurrency conflict.
	editRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "multistop",
		Subsystem: "itinerary",
		Name:      "edit_retries_total",
		Help:      "Edits retried after lock contention",
	})

	// sideEffectFailuresTotal counts best-effort writes that failed after a
	// commit.
	// Labels: target (live_store, route_cache, notifier)
	sideEffectFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multistop",
		Subsystem: "core",
		Name:      "side_effect_failures_total",
		Help:      "Post-commit side effects that failed",
	}, []string{"target"})
)
