package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnMerge(ctx, 1, 0)
	l.OnStabilize(ctx, true, errors.New("anchor panels not on one row"))
	l.OnMigrate(ctx, 3, 5, true)

	// Persist hooks
	p := NoopPersistHooks{}
	p.OnLoad(ctx, "redis", "state:global", time.Millisecond, nil)
	p.OnSave(ctx, "redis", "state:global", time.Millisecond, errors.New("boom"))
	p.OnDebounce(ctx, "state:global")

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/state")
	h.OnResponse(ctx, "GET", "/api/state", 200, time.Second)
	h.OnError(ctx, "PUT", "/api/layout", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Persist().(NoopPersistHooks); !ok {
		t.Error("Persist() should return NoopPersistHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customPersist := &testPersistHooks{}
	SetPersistHooks(customPersist)
	if Persist() != customPersist {
		t.Error("SetPersistHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Persist().(NoopPersistHooks); !ok {
		t.Error("Reset() should restore NoopPersistHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPersistHooks{}
	SetPersistHooks(custom)

	// Setting nil should be ignored
	SetPersistHooks(nil)

	if Persist() != custom {
		t.Error("SetPersistHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testPersistHooks struct{ NoopPersistHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
