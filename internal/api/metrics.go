package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botifyx_auth_success_total",
		Help: "Completed Jira OAuth authentications.",
	})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botifyx_auth_failure_total",
		Help: "Failed Jira OAuth callbacks by reason.",
	}, []string{"reason"})

	chatRelays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botifyx_chat_relay_total",
		Help: "Chat relay outcomes.",
	}, []string{"outcome"})
)
