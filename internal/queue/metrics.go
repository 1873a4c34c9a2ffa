package queue

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrument counts every task h handles by outcome in queue_tasks_total.
func Instrument(h Handler, reg prometheus.Registerer) (Handler, error) {
	tasks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_tasks_total",
			Help: "Total number of queued tasks handled by the worker.",
		},
		[]string{"status"},
	)
	if err := reg.Register(tasks); err != nil {
		return nil, err
	}

	return func(ctx context.Context, filePath string) (Result, error) {
		res, err := h(ctx, filePath)
		if err != nil {
			tasks.WithLabelValues("error").Inc()
		} else {
			tasks.WithLabelValues("ok").Inc()
		}
		return res, err
	}, nil
}
