package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoad(_ context.Context, files, timelines int, d time.Duration, err error) {
	h.done("load", err, "files", files, "timelines", timelines, "took", d)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, persons, placeholders int, d time.Duration, err error) {
	h.done("build", err, "persons", persons, "placeholders", placeholders, "took", d)
}

func (h *LogHooks) OnHops(_ context.Context, origin string, reachable int, d time.Duration) {
	h.logger.Debug("hops", "origin", origin, "reachable", reachable, "took", d)
}

func (h *LogHooks) OnTrim(_ context.Context, origin string, retained, trimmed int, d time.Duration, err error) {
	h.done("trim", err, "origin", origin, "retained", retained, "trimmed", trimmed, "took", d)
}

func (h *LogHooks) OnFrames(_ context.Context, frames int, d time.Duration) {
	h.logger.Debug("frames", "count", frames, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage, kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
