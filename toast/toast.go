// Package toast is the single funnel for transient user-facing notices.
// Failure presentation stays uniform: everything that wants the user's
// attention for a moment goes through a Notifier.
package toast

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ShowDuration is how long a toast stays visible.
const ShowDuration = 3 * time.Second

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Toast is one transient notice.
type Toast struct {
	Level    Level
	Message  string
	Duration time.Duration
}

// Sink receives every toast. The terminal client installs one that
// renders in its status line; without a sink, toasts go to the log.
type Sink func(Toast)

// Notifier fans toasts out to the configured sink.
type Notifier struct {
	mu   sync.Mutex
	sink Sink
	log  *zap.Logger
}

// NewNotifier creates a notifier that logs until a sink is installed. A
// nil logger disables the fallback.
func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{log: logger}
}

// SetSink installs (or, with nil, removes) the presentation sink.
func (n *Notifier) SetSink(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = s
}

func (n *Notifier) Success(msg string) { n.emit(LevelSuccess, msg) }
func (n *Notifier) Error(msg string)   { n.emit(LevelError, msg) }
func (n *Notifier) Info(msg string)    { n.emit(LevelInfo, msg) }
func (n *Notifier) Warning(msg string) { n.emit(LevelWarning, msg) }

func (n *Notifier) emit(level Level, msg string) {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()

	t := Toast{Level: level, Message: msg, Duration: ShowDuration}
	if sink != nil {
		sink(t)
		return
	}
	n.log.Info("toast", zap.String("level", string(level)), zap.String("message", msg))
}
