// Package progress reports how far a contour profile or colony series has
// advanced.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Callback receives progress notifications. Implementations must be safe
// for concurrent use; profile workers report from several goroutines.
type Callback interface {
	OnStart(total int)
	OnProgress(current, total int)
	OnComplete()
	OnError(current int, err error)
}

// NoOp implements Callback but does nothing.
type NoOp struct{}

func (NoOp) OnStart(int)         {}
func (NoOp) OnProgress(int, int) {}
func (NoOp) OnComplete()         {}
func (NoOp) OnError(int, error)  {}

// Console draws a single-line progress bar.
type Console struct {
	writer         io.Writer
	prefix         string
	width          int
	updateInterval time.Duration

	mu         sync.Mutex
	startTime  time.Time
	lastUpdate time.Time
}

// NewConsole creates a console reporter writing to w (stderr when nil).
func NewConsole(w io.Writer, prefix string) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{
		writer:         w,
		prefix:         prefix,
		width:          40,
		updateInterval: 100 * time.Millisecond,
	}
}

// WithUpdateInterval sets how frequently the bar is redrawn.
func (c *Console) WithUpdateInterval(d time.Duration) *Console {
	c.updateInterval = d
	return c
}

func (c *Console) OnStart(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.lastUpdate = time.Time{}
	_, _ = fmt.Fprintf(c.writer, "%s0/%d\n", c.prefix, total)
}

func (c *Console) OnProgress(current, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastUpdate) < c.updateInterval && current < total {
		return
	}
	c.lastUpdate = now
	if total <= 0 {
		return
	}

	filled := c.width * current / total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", c.width-filled)
	status := fmt.Sprintf("\r%s[%s] %d/%d", c.prefix, bar, current, total)
	if elapsed := now.Sub(c.startTime); elapsed > 0 && current > 0 {
		status += fmt.Sprintf(" %.0f/s", float64(current)/elapsed.Seconds())
	}
	_, _ = fmt.Fprint(c.writer, status)
}

func (c *Console) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.writer, "\n%sdone in %v\n", c.prefix, time.Since(c.startTime).Round(time.Millisecond))
}

func (c *Console) OnError(current int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.writer, "\n%serror at %d: %v\n", c.prefix, current, err)
}

// Log reports progress through slog every interval items.
type Log struct {
	logger   *slog.Logger
	level    slog.Level
	prefix   string
	interval int

	mu        sync.Mutex
	lastLog   int
	startTime time.Time
}

// NewLog creates a log-based reporter; a nil logger uses slog.Default().
func NewLog(logger *slog.Logger, level slog.Level, prefix string, interval int) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 1
	}
	return &Log{logger: logger, level: level, prefix: prefix, interval: interval}
}

func (l *Log) OnStart(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.startTime = time.Now()
	l.lastLog = 0
	l.logger.Log(context.Background(), l.level, l.prefix+"started", "total", total)
}

func (l *Log) OnProgress(current, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if current-l.lastLog < l.interval && current != total {
		return
	}
	l.lastLog = current
	l.logger.Log(context.Background(), l.level, l.prefix+"progress",
		"current", current,
		"total", total,
		"elapsed", time.Since(l.startTime).Round(time.Millisecond),
	)
}

func (l *Log) OnComplete() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Log(context.Background(), l.level, l.prefix+"completed", "elapsed", time.Since(l.startTime).Round(time.Millisecond))
}

func (l *Log) OnError(current int, err error) {
	l.logger.Log(context.Background(), slog.LevelError, l.prefix+"error", "current", current, "error", err)
}
