// Package auditzap implements resolve.Audit on top of go.uber.org/zap and
// github.com/natefinch/lumberjack, the same structured-logging-plus-
// rotating-file stack the teacher's own sibling repos in the pack use
// (treemana-godot's go.mod). It is a separate package so a Client's
// default Audit (resolve.NoopAudit) never forces zap or lumberjack on a
// caller who just wants a stub resolver with no logging.
package auditzap

import (
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/holmgren/resolve"
)

// Audit renders every resolve.AuditEvent as a structured zap log entry.
type Audit struct {
	log *zap.Logger
}

// New wraps an already-built *zap.Logger.
func New(log *zap.Logger) *Audit {
	return &Audit{log: log}
}

// NewRotatingFile builds an Audit that writes JSON lines to a
// lumberjack-managed rotating file at path.
func NewRotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) *Audit {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(writer), zap.InfoLevel)
	return &Audit{log: zap.New(core)}
}

var _ resolve.Audit = (*Audit)(nil)

func (a *Audit) Record(ev resolve.AuditEvent) {
	if a == nil || a.log == nil {
		return
	}
	fields := []zap.Field{
		zap.String("question", ev.Question.Name),
		zap.Uint16("qtype", ev.Question.Type),
		zap.Int("attempt", ev.Attempt),
		zap.Int("try", ev.Try),
		zap.String("outcome", ev.Outcome.String()),
	}
	if ev.Server != nil {
		fields = append(fields, zap.String("server", ev.Server.String()))
	}
	if ev.Err != nil {
		fields = append(fields, zap.Error(ev.Err))
		a.log.Warn(ev.Message, fields...)
		return
	}
	a.log.Info(ev.Message, fields...)
}
