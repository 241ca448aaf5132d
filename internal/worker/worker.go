package worker

import (
	"context"

	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/worker/processors"
)

type Worker struct {
	logger    *logger.Logger
	consumer  events.Consumer
	processor *processors.EventProcessor
}

func New(consumer events.Consumer, processor *processors.EventProcessor, logger *logger.Logger) *Worker {
	return &Worker{
		logger:    logger,
		consumer:  consumer,
		processor: processor,
	}
}

// Start consumes events until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started, listening for events...")

	return w.consumer.Consume(ctx, func(ctx context.Context, e events.Event) error {
		if err := w.processor.Process(ctx, e); err != nil {
			w.logger.Error("Failed to process event %s: %v", e.Type, err)
			return err
		}
		w.logger.Debug("Event %s processed successfully", e.Type)
		return nil
	})
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	if err := w.consumer.Close(); err != nil {
		w.logger.Error("Failed to close consumer: %v", err)
	}
}
