package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sinkEvictions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clob",
	Name:      "sink_evictions_total",
	Help:      "Number of subscriber sinks evicted after a failed delivery.",
})
