package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"mariana-chat/observability"
)

// HealthWorker periodically logs process health (CPU, RAM) alongside the
// messaging counters. It is the push counterpart of the /debug/stats
// endpoint, useful when only logs are collected.
type HealthWorker struct {
	log      *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, metrics *observability.Metrics, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, metrics: metrics, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cpu, err := p.CPUPercent()
			if err != nil {
				w.log.Error("Error while finding process cpu usage", "err", err)
				continue
			}
			ram, err := p.MemoryPercent()
			if err != nil {
				w.log.Error("Error while finding process ram usage", "err", err)
				continue
			}

			snapshot := w.metrics.Snapshot()
			w.log.Info("Health report",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"messages_routed", snapshot["messages_routed"],
				"pushes_delivered", snapshot["pushes_delivered"],
				"presence_misses", snapshot["presence_misses"],
				"sessions_opened", snapshot["sessions_opened"],
			)
		}
	}
}
