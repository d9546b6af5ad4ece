package global

import (
	"context"
	"os"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Sub *zap.Logger
}

func (log *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	log.Sub.Info(msg, decaps(ctx, fields...)...)
}

func (log *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	log.Sub.Error(msg, decaps(ctx, fields...)...)
}

func (log *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	log.Sub.Debug(msg, decaps(ctx, fields...)...)
}

func (log *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	log.Sub.Warn(msg, decaps(ctx, fields...)...)
}

// decaps extracts the request-scoped record ids from the context so every
// log line of an operation carries them without each call site repeating the
// fields.
func decaps(ctx context.Context, fields ...zap.Field) []zap.Field {
	if huntID := ctx.Value(startedHuntKey{}); huntID != nil {
		fields = append(fields, zap.String("started_hunt_id", huntID.(string)))
	}
	if teamID := ctx.Value(teamKey{}); teamID != nil {
		fields = append(fields, zap.String("team_id", teamID.(string)))
	}
	if taskID := ctx.Value(taskKey{}); taskID != nil {
		fields = append(fields, zap.String("task_id", taskID.(string)))
	}
	if submissionID := ctx.Value(submissionKey{}); submissionID != nil {
		fields = append(fields, zap.String("submission_id", submissionID.(string)))
	}
	return fields
}

var (
	logger  *Logger
	logOnce sync.Once
)

func Log() *Logger {
	logOnce.Do(func() {
		lvl := zapcore.InfoLevel
		if parsed, err := zapcore.ParseLevel(Conf.LogLevel); err == nil {
			lvl = parsed
		}

		core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(os.Stdout), lvl)
		if Conf.Otel.Tracing {
			core = zapcore.NewTee(
				core,
				otelzap.NewCore("hunt-ops/hunt-manager", otelzap.WithLoggerProvider(loggerProvider)),
			)
		}

		logger = &Logger{
			Sub: zap.New(core),
		}
	})
	return logger
}
