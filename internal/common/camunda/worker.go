// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"careers-scheduling/internal/common/config"
)

// HandlerFunc is the job handler signature the Zeebe client expects.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Pool opens and tracks job workers so shutdown can drain them all.
type Pool struct {
	client  *Client
	logger  *zap.Logger
	workers []worker.JobWorker
}

func NewPool(client *Client, log *zap.Logger) *Pool {
	return &Pool{client: client, logger: log}
}

// Start opens a job worker for the task type using its per-worker config.
// Disabled workers are skipped with a log line so operators can see what is
// intentionally off.
func (p *Pool) Start(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	jobWorker := p.client.Raw().NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	p.workers = append(p.workers, jobWorker)
	p.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Close drains every open worker, then the broker connection.
func (p *Pool) Close() {
	for _, w := range p.workers {
		w.Close()
	}
	if err := p.client.Close(); err != nil {
		p.logger.Error("error closing zeebe client", zap.Error(err))
	}
}
