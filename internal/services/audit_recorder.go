package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/infrastructure/audit"
	"github.com/taskforge/backend/usecase"
)

// RecorderConfig controls journal retention and the append queue.
type RecorderConfig struct {
	Retention       time.Duration
	CleanupInterval time.Duration
	QueueSize       int
}

// AuditRecorder appends events to the journal off the request path and prunes
// entries past retention on a schedule. Appends are fire-and-forget: a full
// queue drops the event rather than blocking a request.
type AuditRecorder struct {
	store   *audit.Store
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RecorderConfig
	events  chan audit.Event
	done    chan struct{}
	stopped chan struct{}
}

func NewAuditRecorder(store *audit.Store, logger *zap.Logger, cfg RecorderConfig) *AuditRecorder {
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rec := &AuditRecorder{
		store:   store,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(),
		events:  make(chan audit.Event, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.CleanupInterval.Seconds()))
	_, _ = rec.cron.AddFunc(schedule, func() {
		cutoff := time.Now().Add(-cfg.Retention)
		if err := rec.store.Cleanup(cutoff); err != nil {
			rec.logger.Error("audit cleanup failed", zap.Error(err))
		}
	})

	return rec
}

// Start launches the append loop and the retention schedule.
func (r *AuditRecorder) Start() {
	if r == nil {
		return
	}
	r.cron.Start()
	go r.loop()
	r.logger.Info("audit recorder started")
}

// Stop drains pending events and halts the scheduler.
func (r *AuditRecorder) Stop(ctx context.Context) {
	if r == nil {
		return
	}
	close(r.done)
	select {
	case <-r.stopped:
	case <-ctx.Done():
	}

	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("audit recorder stopped")
}

// Record implements usecase.AuditTrail.
func (r *AuditRecorder) Record(actorID, entity, action, ref string) {
	if r == nil || r.store == nil {
		return
	}
	event := audit.Event{
		ActorID:   actorID,
		Entity:    entity,
		Action:    action,
		Ref:       ref,
		Timestamp: time.Now(),
	}
	select {
	case r.events <- event:
	default:
		r.logger.Warn("audit queue full, dropping event",
			zap.String("entity", entity),
			zap.String("action", action))
	}
}

func (r *AuditRecorder) loop() {
	defer close(r.stopped)
	for {
		select {
		case event := <-r.events:
			r.append(event)
		case <-r.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case event := <-r.events:
					r.append(event)
				default:
					return
				}
			}
		}
	}
}

func (r *AuditRecorder) append(event audit.Event) {
	if err := r.store.Append(event); err != nil {
		r.logger.Error("failed to append audit event", zap.Error(err))
	}
}

var _ usecase.AuditTrail = (*AuditRecorder)(nil)
