package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"promptresponse/internal/domain"
	"promptresponse/internal/logging"
	"promptresponse/internal/ports"
)

var (
	ErrNoSession = errors.New("no game running")
)

// Config wires a Dealer. Only Cards is required.
type Config struct {
	Cards         domain.CardSource
	Dispatcher    Dispatcher
	Logger        runtime.Logger
	Scheduler     ports.SchedulerPort
	Rand          *rand.Rand
	AutoDealDelay time.Duration
	NewID         func() string
}

// Dealer runs the single active game session: it owns the session slot,
// sequences rounds and schedules the auto-deal after each reveal.
// All methods are safe for concurrent use.
type Dealer struct {
	mu sync.Mutex

	cards      domain.CardSource
	dispatcher Dispatcher
	logger     runtime.Logger
	scheduler  ports.SchedulerPort
	rng        *rand.Rand
	delay      time.Duration
	newID      func() string

	ctx    context.Context
	cancel context.CancelFunc

	session *domain.Session
	timer   ports.Timer
	// timerGen identifies the armed timer; callbacks from older timers are ignored.
	timerGen uint64
}

// NewDealer constructs a Dealer, filling unset collaborators with defaults.
func NewDealer(cfg Config) *Dealer {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = wallClock{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.AutoDealDelay <= 0 {
		cfg.AutoDealDelay = DefaultAutoDealDelay
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dealer{
		cards:      cfg.Cards,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		scheduler:  cfg.Scheduler,
		rng:        cfg.Rand,
		delay:      cfg.AutoDealDelay,
		newID:      cfg.NewID,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetDispatcher replaces the dispatcher used for timer-driven events.
// Transports call it once they are connected.
func (d *Dealer) SetDispatcher(dispatcher Dispatcher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatcher = dispatcher
}

// Close cancels any pending auto-deal. The dealer stays usable for requests.
func (d *Dealer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopTimerLocked()
	d.cancel()
}

// StartGame replaces any running session with a fresh one built from the
// packs matched by filter, and deals the first prompt.
// An in-progress round of the old session is discarded.
func (d *Dealer) StartGame(ctx context.Context, filter string) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	packFilter := domain.ParsePackFilter(filter)
	packs := domain.SelectPacks(d.cards.Packs, packFilter)
	deck, stats := domain.BuildDeck(d.cards, packs, d.rng)
	if stats.SkippedLong > 0 {
		d.logger.Warn("Filtered out %d white cards exceeding %d chars", stats.SkippedLong, domain.MaxCardLength)
	}
	d.logger.Info("Deck built: %d white cards, %d black cards from %d packs (filter %q)", stats.Whites, stats.Blacks, stats.Packs, string(packFilter))

	d.stopTimerLocked()
	if d.session != nil && d.session.Phase.InRound() {
		d.logger.Info("Replacing session %s during round %d", d.session.ID, d.session.Round)
	}
	d.session = domain.NewSession(d.newID(), deck)
	s := d.session

	black, err := s.DealBlack()
	if err != nil {
		if domain.IsExhausted(err) {
			return []Event{gameOverEvent(s, err)}, err
		}
		return nil, err
	}
	return promptEvents(s, black, true), nil
}

// NextPrompt deals the next prompt. It is refused while a round is in progress.
func (d *Dealer) NextPrompt(ctx context.Context) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	if s == nil {
		return nil, ErrNoSession
	}
	black, err := s.DealBlack()
	if err != nil {
		if domain.IsExhausted(err) {
			return []Event{gameOverEvent(s, err)}, err
		}
		return nil, err
	}
	d.stopTimerLocked()
	return promptEvents(s, black, false), nil
}

// StopAutoDeal turns off automatic rounds for the running session.
func (d *Dealer) StopAutoDeal() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return ErrNoSession
	}
	d.session.StopAutoDeal()
	d.stopTimerLocked()
	return nil
}

// HumanSelect plays the human's card at index and hands the turn to the AI.
// A rejected play returns the error with an InvalidAction event for the human.
func (d *Dealer) HumanSelect(ctx context.Context, index int) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	if s == nil {
		return nil, ErrNoSession
	}
	card, err := s.PlayHuman(index)
	if err != nil {
		return []Event{InvalidAction(AudienceHuman, err)}, err
	}
	return []Event{
		{Kind: EventHumanLockedIn, Audience: AudienceTable, Payload: HumanLockedInPayload{Round: s.Round, Card: card}},
		handEvent(s, domain.RoleAI),
	}, nil
}

// AISelect plays the AI's card at index, reveals the round and, with
// auto-deal on, schedules the next prompt. A rejected play returns the error
// with an InvalidAction event for the AI.
func (d *Dealer) AISelect(ctx context.Context, index int) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	if s == nil {
		return nil, ErrNoSession
	}
	reveal, err := s.PlayAI(index)
	if err != nil {
		return []Event{InvalidAction(AudienceAI, err)}, err
	}
	d.logger.Info("Round %d revealed for session %s", reveal.Round, s.ID)

	if s.AutoDeal {
		d.scheduleLocked(s.ID)
	}
	return []Event{{
		Kind:     EventRoundRevealed,
		Audience: AudienceTable,
		Payload: RoundRevealedPayload{
			Round:     reveal.Round,
			Black:     reveal.Black,
			HumanCard: reveal.HumanCard,
			AICard:    reveal.AICard,
		},
	}}, nil
}

// Hand returns the hand held by role together with the current prompt.
func (d *Dealer) Hand(role domain.Role) (HandIssuedPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return HandIssuedPayload{}, ErrNoSession
	}
	return handEvent(d.session, role).Payload.(HandIssuedPayload), nil
}

// History returns the completed rounds of the running session.
func (d *Dealer) History() ([]domain.HistoryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, ErrNoSession
	}
	return append([]domain.HistoryEntry{}, d.session.History...), nil
}

// Status summarises the running session.
type Status struct {
	SessionID     string
	Round         int
	Phase         domain.Phase
	PromptsLeft   int
	ResponsesLeft int
	AutoDeal      bool
	AutoDealArmed bool
}

// Status reports the running session's position.
func (d *Dealer) Status() (Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	if s == nil {
		return Status{}, ErrNoSession
	}
	return Status{
		SessionID:     s.ID,
		Round:         s.Round,
		Phase:         s.Phase,
		PromptsLeft:   s.PromptsLeft(),
		ResponsesLeft: s.ResponsesLeft(),
		AutoDeal:      s.AutoDeal,
		AutoDealArmed: d.timer != nil,
	}, nil
}

// PackSummary describes the loaded card catalogue.
type PackSummary struct {
	Total      int
	Official   int
	Unofficial int
	White      int
	Black      int
}

// Packs summarises the card catalogue for pack selection help.
func (d *Dealer) Packs() PackSummary {
	sum := PackSummary{
		Total: len(d.cards.Packs),
		White: len(d.cards.White),
		Black: len(d.cards.Black),
	}
	for _, p := range d.cards.Packs {
		if p.Official {
			sum.Official++
		} else {
			sum.Unofficial++
		}
	}
	return sum
}

func (d *Dealer) scheduleLocked(sessionID string) {
	d.stopTimerLocked()
	gen := d.timerGen
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.autoAdvance(sessionID, gen)
	})
}

func (d *Dealer) stopTimerLocked() {
	d.timerGen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// autoAdvance runs when the auto-deal delay expires. It is a no-op when the
// timer was stopped or replaced, the session was replaced or auto-deal was
// switched off in the meantime.
func (d *Dealer) autoAdvance(sessionID string, gen uint64) {
	d.mu.Lock()
	s := d.session
	if gen != d.timerGen || s == nil || s.ID != sessionID || !s.AutoDeal || d.ctx.Err() != nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil

	var events []Event
	black, err := s.DealBlack()
	switch {
	case domain.IsExhausted(err):
		events = []Event{gameOverEvent(s, err)}
	case err != nil:
		d.mu.Unlock()
		d.logger.Debug("Auto-deal skipped for session %s: %v", sessionID, err)
		return
	default:
		events = promptEvents(s, black, false)
	}
	round := s.Round
	dispatcher := d.dispatcher
	d.mu.Unlock()

	if dispatcher == nil {
		d.logger.Warn("Auto-deal for round %d has no dispatcher", round)
		return
	}
	if err := dispatcher.Dispatch(d.ctx, events); err != nil {
		d.logger.Error("Auto-deal error (Round %d): %v", round, err)
		notice := Event{
			Kind:     EventNotice,
			Audience: AudienceTable,
			Payload:  NoticePayload{Code: NoticeAutoDealFailed, Round: round, Err: err},
		}
		if nerr := dispatcher.Dispatch(d.ctx, []Event{notice}); nerr != nil {
			d.logger.Warn("Could not report auto-deal failure: %v", nerr)
		}
		return
	}
	d.logger.Info("Auto-dealt round %d", round)
}

func promptEvents(s *domain.Session, black domain.BlackCard, newGame bool) []Event {
	return []Event{
		{
			Kind:     EventPromptRevealed,
			Audience: AudienceTable,
			Payload: PromptRevealedPayload{
				Round:         s.Round,
				Black:         black,
				PromptsLeft:   s.PromptsLeft(),
				ResponsesLeft: s.ResponsesLeft(),
				NewGame:       newGame,
			},
		},
		handEvent(s, domain.RoleHuman),
	}
}

func handEvent(s *domain.Session, role domain.Role) Event {
	var prompt *domain.BlackCard
	if s.CurrentBlack != nil {
		b := *s.CurrentBlack
		prompt = &b
	}
	audience := AudienceHuman
	if role == domain.RoleAI {
		audience = AudienceAI
	}
	return Event{
		Kind:     EventHandIssued,
		Audience: audience,
		Payload:  HandIssuedPayload{Role: role, Prompt: prompt, Cards: s.Hand(role)},
	}
}

func gameOverEvent(s *domain.Session, reason error) Event {
	return Event{Kind: EventGameOver, Audience: AudienceTable, Payload: GameOverPayload{Rounds: len(s.History), Reason: reason}}
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
