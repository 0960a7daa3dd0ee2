package test

import "go.uber.org/fx"

// LifecycleRecorder collects fx hooks so tests can run OnStart/OnStop
// manually instead of spinning up a full app.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called when Shutdown fires. The send is
// non-blocking so production code that shuts down more than once does
// not deadlock the test.
type ShutdownerStub struct {
	Called chan struct{}
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called == nil {
		return nil
	}
	select {
	case s.Called <- struct{}{}:
	default:
	}
	return nil
}
