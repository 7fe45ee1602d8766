package ports

import (
	"log"
	"time"

	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

type ColonyMetrics interface {
	RecordAction(action string, code world.ResultCode)
	RecordSpawn(r role.Kind, code world.ResultCode)
	RecordChainCreated()
	RecordTick(d time.Duration)
	RecordFailure()
}

type Logger interface {
	Printf(format string, v ...any)
}

// LoggerOrDefault returns l, or the standard logger when l is nil.
func LoggerOrDefault(l Logger) Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) RecordAction(string, world.ResultCode)   {}
func (NopMetrics) RecordSpawn(role.Kind, world.ResultCode) {}
func (NopMetrics) RecordChainCreated()                     {}
func (NopMetrics) RecordTick(time.Duration)                {}
func (NopMetrics) RecordFailure()                          {}

func MetricsOrNop(m ColonyMetrics) ColonyMetrics {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
