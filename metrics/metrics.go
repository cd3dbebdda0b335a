// Package metrics exposes Prometheus counters for the broadcast
// pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "randopics_broadcasts_total",
		Help: "Number of accepted photo broadcasts",
	})
	DeliveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "randopics_deliveries_total",
		Help: "Number of delivery rows written by fan-out",
	})
	NoRecipientsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "randopics_no_recipients_total",
		Help: "Number of broadcasts rejected because nobody was in range",
	})
	ReportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "randopics_reports_total",
		Help: "Number of reports filed against deliveries",
	})
	BansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "randopics_bans_total",
		Help: "Number of completed ban cascades",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
