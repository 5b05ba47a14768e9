package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventtask",
		Subsystem: "storage",
		Name:      "errors_total",
		Help:      "Storage failures after classification, broken down by error kind.",
	}, []string{"kind"})

	taskWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventtask",
		Subsystem: "task",
		Name:      "writes_total",
		Help:      "Transactional task writes broken down by operation and result.",
	}, []string{"op", "result"})
)

// RecordStorageError counts a translated storage failure.
func RecordStorageError(kind string) {
	if kind == "" {
		kind = "other"
	}
	storageErrors.WithLabelValues(kind).Inc()
}

// RecordTaskWrite counts a committed or rolled back task write unit.
func RecordTaskWrite(op string, err error) {
	result := "committed"
	if err != nil {
		result = "rolled_back"
	}
	taskWrites.WithLabelValues(op, result).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
