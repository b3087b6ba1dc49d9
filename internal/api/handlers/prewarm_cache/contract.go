package prewarm_cache

import (
	"context"

	prewarmCache "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/prewarm_cache"
)

type PrewarmCacheUseCase interface {
	Execute(ctx context.Context, req *prewarmCache.Request) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
