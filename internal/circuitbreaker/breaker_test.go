package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return logger
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 3, Cooldown: time.Minute}, testLogger())

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return boom }); err != boom {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	if b.State() != StateOpen {
		t.Fatalf("expected open state, got %s", b.State())
	}
	if err := b.Execute(func() error { return nil }); err != ErrOpen {
		t.Fatalf("expected ErrOpen while open, got %v", err)
	}
	if b.LastFailure() != boom {
		t.Fatalf("expected last failure to be recorded")
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 2, Cooldown: time.Minute}, testLogger())

	b.Execute(func() error { return errors.New("one") })
	b.Execute(func() error { return nil })
	b.Execute(func() error { return errors.New("two") })

	if b.State() != StateClosed {
		t.Fatalf("expected closed after interleaved success, got %s", b.State())
	}
}

func TestHalfOpenProbeClosesOnSuccess(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 1, Cooldown: 10 * time.Millisecond}, testLogger())

	b.Execute(func() error { return errors.New("boom") })
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", b.State())
	}
}

func TestHalfOpenProbeReopensOnFailure(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 1, Cooldown: 10 * time.Millisecond}, testLogger())

	b.Execute(func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	b.Execute(func() error { return errors.New("still down") })
	if b.State() != StateOpen {
		t.Fatalf("expected reopened after failed probe, got %s", b.State())
	}
}

func TestExecuteConcurrentAccess(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 50, Cooldown: time.Minute}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Execute(func() error {
				if n%3 == 0 {
					return errors.New("simulated failure")
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	// No assertion on final state beyond validity; the point is the race
	// detector stays quiet.
	switch b.State() {
	case StateClosed, StateOpen, StateHalfOpen:
	default:
		t.Fatalf("invalid state %d", b.State())
	}
}
