package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// CommandLogger returns a CommandMonitor that logs every driver command
// at debug level. Wire it in via Options.LogCommands; keep it off in
// production unless chasing a query problem, the volume is high.
func CommandLogger(log *zap.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			log.Debug("mongodb command started",
				zap.String("command", evt.CommandName),
				zap.String("database", evt.DatabaseName),
				zap.Int64("request_id", evt.RequestID),
			)
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			log.Debug("mongodb command succeeded",
				zap.String("command", evt.CommandName),
				zap.Int64("request_id", evt.RequestID),
				zap.Duration("duration", evt.Duration),
			)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Warn("mongodb command failed",
				zap.String("command", evt.CommandName),
				zap.Int64("request_id", evt.RequestID),
				zap.Duration("duration", evt.Duration),
				zap.String("failure", evt.Failure),
			)
		},
	}
}
