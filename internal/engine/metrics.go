package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are ambient engine instrumentation: basic operational visibility,
// not market surveillance.
var metrics = struct {
	submitLatency *prometheus.HistogramVec
	tradesTotal   *prometheus.CounterVec
	bookLevels    *prometheus.GaugeVec
}{
	submitLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clob",
		Name:      "submit_duration_seconds",
		Help:      "Time spent processing a single submit, end to end.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"symbol", "order_type", "asset_class"}),
	tradesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clob",
		Name:      "trades_total",
		Help:      "Number of trades produced, by symbol.",
	}, []string{"symbol"}),
	bookLevels: promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "clob",
		Name:      "book_price_levels",
		Help:      "Current number of resting price levels, by symbol and side.",
	}, []string{"symbol", "side"}),
}
