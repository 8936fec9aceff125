package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks implements the observability hooks by logging every event.
// Routine events are logged at debug level; failures and resets at warn.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnMerge(_ context.Context, inserted, dropped int) {
	if inserted == 0 && dropped == 0 {
		return
	}
	h.logger.Debug("layout merged", "inserted", inserted, "dropped", dropped)
}

func (h *logHooks) OnStabilize(_ context.Context, reset bool, reason error) {
	if reset {
		h.logger.Warn("layout reset to defaults", "reason", reason)
	}
}

func (h *logHooks) OnMigrate(_ context.Context, from, to int, reset bool) {
	if from == to && !reset {
		return
	}
	h.logger.Info("layout migrated", "from", from, "to", to, "reset", reset)
}

func (h *logHooks) OnLoad(_ context.Context, backend, key string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("state load failed", "backend", backend, "key", key, "error", err)
		return
	}
	h.logger.Debug("state loaded", "backend", backend, "key", key, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnSave(_ context.Context, backend, key string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("state save failed", "backend", backend, "key", key, "error", err)
		return
	}
	h.logger.Debug("state saved", "backend", backend, "key", key, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnDebounce(_ context.Context, key string) {
	h.logger.Debug("save coalesced", "key", key)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Debug("handler error", "method", method, "route", route, "error", err)
}
