package ip2wlib

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

type circuitBreakerCallback func(context.Context) (*http.Response, error)

const (
	circuitBreakerStateClosed uint32 = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

const (
	DefaultCircuitBreakerHalfOpenTimeout      = time.Minute
	DefaultCircuitBreakerResetFailuresTimeout = 20 * time.Second
)

type circuitBreaker struct {
	state          uint32
	stateMutexChan chan bool

	halfOpenTimer        *time.Timer
	failuresCleanupTimer *time.Timer

	halfOpenAttempts uint32
	failuresCount    uint32

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	switch atomic.LoadUint32(&c.state) {
	case circuitBreakerStateClosed:
		return c.doClosed(ctx, callback)
	case circuitBreakerStateHalfOpened:
		return c.doHalfOpened(ctx, callback)
	default:
		return nil, ErrCircuitBreakerOpened
	}
}

func (c *circuitBreaker) doClosed(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	resp, err := callback(ctx)

	if !c.lock(ctx) {
		closeResponse(resp)

		return nil, ctx.Err()
	}
	defer c.unlock()

	switch {
	case err == nil:
		c.switchState(circuitBreakerStateClosed)

		return resp, nil
	case errors.Is(err, errCircuitBreakerIgnore):
		return resp, err
	}

	c.failuresCount++

	if c.state == circuitBreakerStateClosed && c.failuresCount > c.openThreshold {
		c.switchState(circuitBreakerStateOpened)
	}

	return resp, err
}

func (c *circuitBreaker) doHalfOpened(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	if !atomic.CompareAndSwapUint32(&c.halfOpenAttempts, 0, 1) {
		return nil, ErrCircuitBreakerOpened
	}

	resp, err := callback(ctx)

	if !c.lock(ctx) {
		closeResponse(resp)

		return nil, ctx.Err()
	}
	defer c.unlock()

	if c.state != circuitBreakerStateHalfOpened {
		return resp, err
	}

	switch {
	case err == nil:
		c.switchState(circuitBreakerStateClosed)
	case errors.Is(err, errCircuitBreakerIgnore):
		atomic.StoreUint32(&c.halfOpenAttempts, 0)
	default:
		c.switchState(circuitBreakerStateOpened)
	}

	return resp, err
}

func (c *circuitBreaker) lock(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case c.stateMutexChan <- true:
		return true
	}
}

func (c *circuitBreaker) unlock() {
	<-c.stateMutexChan
}

func (c *circuitBreaker) switchState(state uint32) {
	switch state {
	case circuitBreakerStateClosed:
		c.stopTimer(&c.halfOpenTimer)
		c.ensureTimer(&c.failuresCleanupTimer, c.resetFailuresTimeout, c.resetFailures)
	case circuitBreakerStateHalfOpened:
		c.stopTimer(&c.failuresCleanupTimer)
		c.stopTimer(&c.halfOpenTimer)
	case circuitBreakerStateOpened:
		c.stopTimer(&c.failuresCleanupTimer)
		c.ensureTimer(&c.halfOpenTimer, c.halfOpenTimeout, c.tryHalfOpen)
	}

	c.failuresCount = 0

	atomic.StoreUint32(&c.halfOpenAttempts, 0)
	atomic.StoreUint32(&c.state, state)
}

func (c *circuitBreaker) resetFailures() {
	c.stateMutexChan <- true
	defer c.unlock()

	c.stopTimer(&c.failuresCleanupTimer)

	if c.state == circuitBreakerStateClosed {
		c.switchState(circuitBreakerStateClosed)
	}
}

func (c *circuitBreaker) tryHalfOpen() {
	c.stateMutexChan <- true
	defer c.unlock()

	if c.state == circuitBreakerStateOpened {
		c.switchState(circuitBreakerStateHalfOpened)
	}
}

func (c *circuitBreaker) stopTimer(timerRef **time.Timer) {
	timer := *timerRef

	if timer == nil {
		return
	}

	timer.Stop()

	*timerRef = nil
}

func (c *circuitBreaker) ensureTimer(timerRef **time.Timer, timeout time.Duration, callback func()) {
	if *timerRef == nil {
		*timerRef = time.AfterFunc(timeout, callback)
	}
}

func closeResponse(resp *http.Response) {
	if resp != nil {
		flushResponse(resp.Body)
	}
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	if halfOpenTimeout <= 0 {
		halfOpenTimeout = DefaultCircuitBreakerHalfOpenTimeout
	}

	if resetFailuresTimeout <= 0 {
		resetFailuresTimeout = DefaultCircuitBreakerResetFailuresTimeout
	}

	cb := &circuitBreaker{
		stateMutexChan:       make(chan bool, 1),
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}

	cb.switchState(circuitBreakerStateClosed)

	return cb
}
