package study

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/config"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/progress"
	"github.com/w-udagawa/vlingual-cards/internal/scheduler"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type poolResolver interface {
	Pool(ref domain.PoolRef) ([]domain.VocabRecord, error)
}

type progressStore interface {
	Load(ctx context.Context, videoID string) error
	Record(ctx context.Context, term string, r domain.Rating) error
	Reset(ctx context.Context) error
	Snapshot() progress.State
	Policy() domain.Policy
}

type selector interface {
	Select(pool []domain.VocabRecord, st progress.State) (scheduler.Selection, bool)
}

type speaker interface {
	Speak(ctx context.Context, word, lang string) error
}

type audioPrefs interface {
	AudioEnabled(ctx context.Context) (bool, error)
}

// ---------------------------------------------------------------------------
// Controller
// ---------------------------------------------------------------------------

// Options configures a Controller.
type Options struct {
	TransitionDelay    time.Duration
	ProgressScope      string
	KeepFilterOnSwitch bool
	SpeechLang         string
	Clock              Clock
}

// OptionsFromConfig maps the study and speech config sections.
func OptionsFromConfig(study config.StudyConfig, sp config.SpeechConfig) Options {
	return Options{
		TransitionDelay:    study.TransitionDelay,
		ProgressScope:      study.ProgressScope,
		KeepFilterOnSwitch: study.KeepFilterOnSwitch,
		SpeechLang:         sp.Lang,
	}
}

// Controller drives one study session. All transitions are serialized by a
// mutex; a pending mastery transition is invalidated by bumping gen.
type Controller struct {
	pool     poolResolver
	progress progressStore
	sched    selector
	speaker  speaker
	audio    audioPrefs
	opts     Options
	log      *slog.Logger

	mu      sync.Mutex
	base    []domain.VocabRecord
	state   State
	gen     uint64
	pending Timer
	settled chan struct{}
	speech  sync.WaitGroup
}

var closedSettled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// NewController creates an idle session with no pool. speaker and audio may
// be nil to disable pronunciation.
func NewController(
	log *slog.Logger,
	pool poolResolver,
	store progressStore,
	sched selector,
	speaker speaker,
	audio audioPrefs,
	opts Options,
) *Controller {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.SpeechLang == "" {
		opts.SpeechLang = "en-US"
	}
	return &Controller{
		pool:     pool,
		progress: store,
		sched:    sched,
		speaker:  speaker,
		audio:    audio,
		opts:     opts,
		log:      log.With("service", "study"),
		state: State{
			Phase:  PhaseIdle,
			Filter: domain.FilterAll,
			Policy: store.Policy(),
		},
	}
}

// SelectPool switches the session to ref and shows its first card. An unknown
// cast or video fails with domain.ErrNotFound and leaves the session as is.
func (c *Controller) SelectPool(ctx context.Context, ref domain.PoolRef) (State, error) {
	records, err := c.pool.Pool(ref)
	if err != nil {
		return State{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.progress.Load(ctx, c.progressKey(ref)); err != nil {
		return State{}, fmt.Errorf("load progress: %w", err)
	}

	c.cancelPendingLocked()
	c.base = records
	c.state.Pool = ref
	c.state.Current = nil
	c.state.Flipped = false
	c.state.Phase = PhaseIdle
	if !c.opts.KeepFilterOnSwitch {
		c.state.Filter = domain.FilterAll
	}
	c.selectNextLocked()
	return c.snapshotLocked(), nil
}

func (c *Controller) progressKey(ref domain.PoolRef) string {
	if c.opts.ProgressScope == config.ScopeVideo {
		return ref.VideoID
	}
	return ""
}

// Flip toggles the reveal of the current card. Revealing the back speaks the
// word when audio is enabled.
func (c *Controller) Flip(ctx context.Context) Result {
	c.mu.Lock()
	if c.state.Current == nil || c.state.Phase != PhaseIdle {
		defer c.mu.Unlock()
		return Result{State: c.snapshotLocked()}
	}
	c.state.Flipped = !c.state.Flipped
	revealed := c.state.Flipped
	term := c.state.Current.Term
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if revealed {
		c.speak(ctx, term)
	}
	return Result{Accepted: true, State: snap}
}

func (c *Controller) speak(ctx context.Context, term string) {
	if c.speaker == nil || c.audio == nil {
		return
	}
	enabled, err := c.audio.AudioEnabled(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "audio preference unavailable", slog.String("error", err.Error()))
		return
	}
	if !enabled {
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.speech.Add(1)
	go func() {
		defer c.speech.Done()
		_ = c.speaker.Speak(ctx, term, c.opts.SpeechLang)
	}()
}

// Rate records r for the current card. It is ignored, with Accepted false,
// when there is no card or a transition is pending.
func (c *Controller) Rate(ctx context.Context, r domain.Rating) (Result, error) {
	if !r.IsValid() {
		return Result{}, domain.NewValidationError("rating", "must be one of again, ok, easy")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Current == nil || c.state.Phase != PhaseIdle {
		return Result{State: c.snapshotLocked()}, nil
	}

	term := c.state.Current.Term
	if err := c.progress.Record(ctx, term, r); err != nil {
		return Result{}, fmt.Errorf("record rating: %w", err)
	}
	c.state.Reviewed++
	c.state.Flipped = false

	c.log.InfoContext(ctx, "card.rate",
		slog.String("word", term),
		slog.String("rating", r.String()),
		slog.String("policy", c.state.Policy.String()),
		slog.Int("reviewed", c.state.Reviewed),
	)

	if c.state.Policy != domain.PolicyMastery {
		c.selectNextLocked()
		return Result{Accepted: true, State: c.snapshotLocked()}, nil
	}

	if c.opts.TransitionDelay <= 0 {
		c.selectNextLocked()
		return Result{Accepted: true, State: c.snapshotLocked()}, nil
	}

	c.state.Phase = PhaseTransitioning
	c.gen++
	gen := c.gen
	c.settled = make(chan struct{})
	c.pending = c.opts.Clock.AfterFunc(c.opts.TransitionDelay, func() { c.completeTransition(gen) })
	return Result{Accepted: true, State: c.snapshotLocked()}, nil
}

func (c *Controller) completeTransition(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.state.Phase != PhaseTransitioning {
		return
	}
	c.pending = nil
	c.state.Phase = PhaseIdle
	c.selectNextLocked()
	c.settleLocked()
}

// Settled returns a channel that is closed once no transition is pending. It
// is already closed when the session is idle or complete.
func (c *Controller) Settled() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled == nil {
		return closedSettled
	}
	return c.settled
}

func (c *Controller) settleLocked() {
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
}

// SetFilter narrows the session to mode and picks a new card. When no word
// matches, the filter falls back to FilterAll.
func (c *Controller) SetFilter(mode domain.FilterMode) (Result, error) {
	if !mode.IsValid() {
		return Result{}, domain.NewValidationError("mode", "must be one of all, again")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == PhaseTransitioning {
		return Result{State: c.snapshotLocked()}, nil
	}
	c.state.Filter = mode
	c.state.Flipped = false
	c.state.Phase = PhaseIdle
	c.selectNextLocked()
	return Result{Accepted: true, State: c.snapshotLocked()}, nil
}

// Reset clears progress for the current scope and the reviewed counter, and
// cancels any pending transition.
func (c *Controller) Reset(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.progress.Reset(ctx); err != nil {
		return State{}, fmt.Errorf("reset progress: %w", err)
	}
	c.cancelPendingLocked()
	c.state.Reviewed = 0
	c.state.Flipped = false
	c.state.Phase = PhaseIdle
	c.selectNextLocked()

	c.log.InfoContext(ctx, "session.reset",
		slog.String("policy", c.state.Policy.String()),
		slog.Int("pool", len(c.base)),
	)
	return c.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels a pending transition and waits for speech in progress.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.mu.Unlock()
	c.speech.Wait()
}

func (c *Controller) cancelPendingLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.settleLocked()
}

// selectNextLocked applies the filter and asks the scheduler for a card. No
// card with a non-empty pool means every word is mastered.
func (c *Controller) selectNextLocked() {
	st := c.progress.Snapshot()
	cards, mode := scheduler.ApplyFilter(c.base, st, c.state.Filter)
	c.state.Filter = mode
	c.state.Cards = cards

	sel, ok := c.sched.Select(cards, st)
	if !ok {
		c.state.Current = nil
		if len(cards) > 0 {
			c.state.Phase = PhaseComplete
		}
		return
	}
	card := sel.Card
	c.state.Current = &card
}

func (c *Controller) snapshotLocked() State {
	st := c.progress.Snapshot()
	out := c.state.clone()
	out.PoolSize = len(c.base)
	out.Studied = st.StudiedCount(c.base)
	out.Mastered = st.MasteredCount()
	out.Entry = nil
	if out.Current != nil {
		if e, ok := st.Entry(out.Current.Term); ok {
			out.Entry = &e
		}
	}
	return out
}
