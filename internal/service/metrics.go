// metrics.go — бизнес-метрики Prometheus сервисного слоя.
// HTTP-метрики (fm_http_*) регистрирует middleware.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operationsTotal — общее количество операций сервисного слоя.
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fm_operations_total",
		Help: "Общее количество операций files manager",
	},
	[]string{"operation", "result"},
)

// observeOperation фиксирует результат операции в метриках.
func observeOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
