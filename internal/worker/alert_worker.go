// Package worker consumes budget alerts published by the planner.
package worker

import (
	"context"
	"log/slog"

	"budgetplanner/internal/amqp"
	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
)

// AlertConsumer is the queue side of the budget alert flow.
type AlertConsumer interface {
	ConsumeBudgetAlerts(ctx context.Context, handler amqp.AlertHandler) error
}

var _ AlertConsumer = (*amqp.Client)(nil)

// AlertWorker logs every alert it receives and keeps a running count per
// level.
type AlertWorker struct {
	consumer AlertConsumer
	log      *log.Logger
	counts   map[core.AlertLevel]int
}

func NewAlertWorker(consumer AlertConsumer, logger *log.Logger) *AlertWorker {
	return &AlertWorker{
		consumer: consumer,
		log:      logger.WithComponent(log.ComponentWorker),
		counts:   make(map[core.AlertLevel]int),
	}
}

// Run consumes until ctx is cancelled. Cancellation is not an error.
func (w *AlertWorker) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "Alert worker started")
	err := w.consumer.ConsumeBudgetAlerts(ctx, w.HandleAlert)
	if ctx.Err() != nil {
		w.log.InfoContext(ctx, "Alert worker stopped", "warnings", w.counts[core.AlertWarning], "exceeded", w.counts[core.AlertExceeded])
		return nil
	}
	return err
}

// HandleAlert is called once per delivery; it runs on the consumer goroutine.
func (w *AlertWorker) HandleAlert(ctx context.Context, a core.BudgetAlert) error {
	w.counts[a.Level]++
	level := slog.LevelWarn
	if a.Level == core.AlertExceeded {
		level = slog.LevelError
	}
	w.log.Log(ctx, level, "Budget alert",
		log.FieldComponent, w.log.Component(),
		log.FieldUserID, a.UserID,
		log.FieldEmail, a.Email,
		log.FieldMonth, a.Month.String(),
		log.FieldCategory, a.Category,
		"goal", a.Goal.String(),
		"spent", a.Spent.String(),
		log.FieldLevel, string(a.Level))
	return nil
}

// Count returns how many alerts of a level were handled.
func (w *AlertWorker) Count(level core.AlertLevel) int {
	return w.counts[level]
}
