// Package circuitbreaker stops hammering a failing dependency. The event
// publisher wraps Kafka sends with it so a dead broker costs one failed send
// per cooldown instead of blocking every request.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	Name        string
	MaxFailures int           // consecutive failures before opening
	Cooldown    time.Duration // how long to stay open before probing
}

type Breaker struct {
	config Config
	logger *logrus.Logger

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	lastFailure error
}

func New(config Config, logger *logrus.Logger) *Breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	return &Breaker{config: config, logger: logger, state: StateClosed}
}

// Execute runs fn unless the breaker is open. While open, calls fail fast
// with ErrOpen until the cooldown elapses; the next call then probes in
// half-open state.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	err := fn()
	b.afterCall(err)
	return err
}

func (b *Breaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Since(b.openedAt) < b.config.Cooldown {
			return ErrOpen
		}
		b.state = StateHalfOpen
		b.logger.WithField("breaker", b.config.Name).Info("Circuit breaker half-open, probing")
	}
	return nil
}

func (b *Breaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != StateClosed {
			b.logger.WithField("breaker", b.config.Name).Info("Circuit breaker closed")
		}
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = err
	if b.state == StateHalfOpen || b.failures >= b.config.MaxFailures {
		b.state = StateOpen
		b.openedAt = time.Now()
		b.logger.WithFields(logrus.Fields{
			"breaker":  b.config.Name,
			"failures": b.failures,
		}).Warn("Circuit breaker opened")
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// LastFailure returns the error that most recently tripped the breaker.
func (b *Breaker) LastFailure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastFailure
}
