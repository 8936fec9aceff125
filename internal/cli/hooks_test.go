package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickergrid/pkg/observability"
)

var (
	_ observability.LayoutHooks  = (*logHooks)(nil)
	_ observability.PersistHooks = (*logHooks)(nil)
	_ observability.HTTPHooks    = (*logHooks)(nil)
)

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		level log.Level
		fire  func(h *logHooks)
		want  string
	}{
		{"merge", log.DebugLevel, func(h *logHooks) { h.OnMerge(ctx, 2, 1) }, "layout merged"},
		{"no-op merge", log.DebugLevel, func(h *logHooks) { h.OnMerge(ctx, 0, 0) }, ""},
		{"reset", log.InfoLevel, func(h *logHooks) { h.OnStabilize(ctx, true, errors.New("anchors split")) }, "anchors split"},
		{"healthy", log.DebugLevel, func(h *logHooks) { h.OnStabilize(ctx, false, nil) }, ""},
		{"migrate", log.InfoLevel, func(h *logHooks) { h.OnMigrate(ctx, 4, 5, false) }, "layout migrated"},
		{"current", log.DebugLevel, func(h *logHooks) { h.OnMigrate(ctx, 5, 5, false) }, ""},
		{"save failed", log.InfoLevel, func(h *logHooks) {
			h.OnSave(ctx, "redis", "state:global", time.Millisecond, errors.New("connection refused"))
		}, "connection refused"},
		{"save hidden at info", log.InfoLevel, func(h *logHooks) {
			h.OnSave(ctx, "redis", "state:global", time.Millisecond, nil)
		}, ""},
		{"load", log.DebugLevel, func(h *logHooks) {
			h.OnLoad(ctx, "file", "state:global", time.Millisecond, nil)
		}, "state loaded"},
		{"debounce", log.DebugLevel, func(h *logHooks) { h.OnDebounce(ctx, "state:global") }, "save coalesced"},
		{"response", log.DebugLevel, func(h *logHooks) {
			h.OnResponse(ctx, "GET", "/api/state", 200, time.Millisecond)
		}, "/api/state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fire(&logHooks{logger: newLogger(&buf, tt.level)})

			if tt.want == "" {
				if buf.Len() != 0 {
					t.Errorf("unexpected output %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
