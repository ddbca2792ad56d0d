package trace

import (
	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"
)

// EventLogger is a hook that logs every model event.
type EventLogger struct {
	logger logr.Logger
}

// NewEventLogger creates an EventLogger writing to logger.
func NewEventLogger(logger logr.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func implements sim.Hook.
func (l *EventLogger) Func(ctx sim.HookCtx) {
	if ctx.Item == nil {
		l.logger.Info(ctx.Pos.Name)
		return
	}
	l.logger.Info(ctx.Pos.Name, "word", ctx.Item)
}
