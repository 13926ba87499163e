// Package leaktest detects goroutines and heap left behind by a test.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
	bytesPerMB    = 1024 * 1024
)

// GoroutineChecker records the goroutine count at creation
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test if, after waiting for goroutines to exit, more than
// tolerance goroutines remain above the recorded count.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after := settle(g.before+tolerance, settleTimeout)
	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}

// HeapChecker records live heap bytes at creation
type HeapChecker struct {
	before uint64
	t      testing.TB
}

// NewHeapChecker forces a collection and records live heap bytes
func NewHeapChecker(t testing.TB) *HeapChecker {
	t.Helper()
	return &HeapChecker{before: liveHeap(), t: t}
}

// Check fails the test if live heap grew by more than maxGrowthMB
func (h *HeapChecker) Check(maxGrowthMB float64) {
	h.t.Helper()

	after := liveHeap()
	growthMB := (float64(after) - float64(h.before)) / bytesPerMB
	if growthMB > maxGrowthMB {
		h.t.Errorf("Potential heap leak: before=%.2fMB, after=%.2fMB, growth=%.2fMB (max=%.2fMB)",
			float64(h.before)/bytesPerMB, float64(after)/bytesPerMB, growthMB, maxGrowthMB)
	}
}

// CheckNoGoroutineLeak runs fn and fails if it leaves goroutines behind
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// settle polls until at most target goroutines run or timeout elapses and
// returns the last observed count.
func settle(target int, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target || time.Now().After(deadline) {
			return n
		}
		time.Sleep(pollInterval)
	}
}

func liveHeap() uint64 {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
