package study

import (
	"context"
	"sync"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

var _ poolResolver = &poolResolverMock{}

type poolResolverMock struct {
	PoolFunc func(ref domain.PoolRef) ([]domain.VocabRecord, error)

	calls struct {
		Pool []struct {
			Ref domain.PoolRef
		}
	}
	lockPool sync.RWMutex
}

func (mock *poolResolverMock) Pool(ref domain.PoolRef) ([]domain.VocabRecord, error) {
	if mock.PoolFunc == nil {
		panic("poolResolverMock.PoolFunc: method is nil but poolResolver.Pool was just called")
	}
	callInfo := struct {
		Ref domain.PoolRef
	}{Ref: ref}
	mock.lockPool.Lock()
	mock.calls.Pool = append(mock.calls.Pool, callInfo)
	mock.lockPool.Unlock()
	return mock.PoolFunc(ref)
}

func (mock *poolResolverMock) PoolCalls() []struct {
	Ref domain.PoolRef
} {
	mock.lockPool.RLock()
	calls := mock.calls.Pool
	mock.lockPool.RUnlock()
	return calls
}

var _ speaker = &speakerMock{}

type speakerMock struct {
	SpeakFunc func(ctx context.Context, word, lang string) error

	calls struct {
		Speak []struct {
			Word string
			Lang string
		}
	}
	lockSpeak sync.RWMutex
}

func (mock *speakerMock) Speak(ctx context.Context, word, lang string) error {
	callInfo := struct {
		Word string
		Lang string
	}{Word: word, Lang: lang}
	mock.lockSpeak.Lock()
	mock.calls.Speak = append(mock.calls.Speak, callInfo)
	mock.lockSpeak.Unlock()
	if mock.SpeakFunc == nil {
		return nil
	}
	return mock.SpeakFunc(ctx, word, lang)
}

func (mock *speakerMock) SpeakCalls() []struct {
	Word string
	Lang string
} {
	mock.lockSpeak.RLock()
	calls := mock.calls.Speak
	mock.lockSpeak.RUnlock()
	return calls
}

var _ audioPrefs = &audioPrefsMock{}

type audioPrefsMock struct {
	AudioEnabledFunc func(ctx context.Context) (bool, error)
}

func (mock *audioPrefsMock) AudioEnabled(ctx context.Context) (bool, error) {
	if mock.AudioEnabledFunc == nil {
		panic("audioPrefsMock.AudioEnabledFunc: method is nil but audioPrefs.AudioEnabled was just called")
	}
	return mock.AudioEnabledFunc(ctx)
}

// fakeClock records scheduled callbacks; tests fire them by hand.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every pending callback. With stale set it also runs stopped
// ones, as a timer that raced with Stop would.
func (c *fakeClock) Fire(stale bool) int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.fired || (t.stopped && !stale) {
			continue
		}
		t.fired = true
		due = append(due, t)
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
