package structus

import (
	"sync"

	"github.com/rs/zerolog"
)

// Observer receives schema and instance lifecycle events. Implementations
// must be safe for concurrent use.
type Observer interface {
	// Declared is called after a member is declared.
	Declared(schema, member string)
	// Constructed is called after an instance is built.
	Constructed(schema string)
	// Rejected is called when a read or write fails with code.
	Rejected(schema, member, code string)
}

type nopObserver struct{}

func (nopObserver) Declared(string, string)         {}
func (nopObserver) Constructed(string)              {}
func (nopObserver) Rejected(string, string, string) {}

var (
	ambientMu sync.RWMutex
	observer  Observer = nopObserver{}
	logger             = zerolog.Nop()
)

// SetObserver replaces the process-wide observer. Passing nil restores the
// no-op observer.
func SetObserver(o Observer) {
	ambientMu.Lock()
	defer ambientMu.Unlock()
	if o == nil {
		o = nopObserver{}
	}
	observer = o
}

func currentObserver() Observer {
	ambientMu.RLock()
	defer ambientMu.RUnlock()
	return observer
}

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	ambientMu.Lock()
	defer ambientMu.Unlock()
	logger = l
}

func log() *zerolog.Logger {
	ambientMu.RLock()
	defer ambientMu.RUnlock()
	l := logger
	return &l
}
