package console

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"promptresponse/internal/app"
	"promptresponse/internal/bot"
	"promptresponse/internal/domain"
	"promptresponse/internal/logging"
	"promptresponse/internal/ports"
)

type noTimer struct{}

func (noTimer) Stop() bool { return false }

// immediateScheduler runs each callback right away on its own goroutine.
type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, f func()) ports.Timer {
	go f()
	return noTimer{}
}

// heldScheduler never fires.
type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) ports.Timer { return noTimer{} }

func testCards(whites, blacks int) domain.CardSource {
	cards := domain.CardSource{}
	pack := domain.Pack{Name: "Base", Official: true}
	for i := 0; i < whites; i++ {
		cards.White = append(cards.White, domain.WhiteCard(fmt.Sprintf("Card number %d", i)))
		pack.White = append(pack.White, i)
	}
	for i := 0; i < blacks; i++ {
		cards.Black = append(cards.Black, domain.BlackCard{Text: fmt.Sprintf("Prompt %d is _.", i), Pick: 1})
		pack.Black = append(pack.Black, i)
	}
	cards.Packs = []domain.Pack{pack}
	return cards
}

func newGame(t *testing.T, blacks int, sched ports.SchedulerPort, input string, opts Options) (*Player, *bytes.Buffer) {
	t.Helper()
	return newGameWith(t, testCards(20, blacks), sched, input, opts)
}

func newGameWith(t *testing.T, cards domain.CardSource, sched ports.SchedulerPort, input string, opts Options) (*Player, *bytes.Buffer) {
	t.Helper()
	pterm.DisableColor()
	dealer := app.NewDealer(app.Config{
		Cards:     cards,
		Scheduler: sched,
		Rand:      rand.New(rand.NewSource(3)),
	})
	t.Cleanup(dealer.Close)
	out := &bytes.Buffer{}
	agent := &bot.Agent{Name: "AI", Strategy: &bot.WordyBot{}}
	chooser := NewChooser(strings.NewReader(input), out, false)
	return NewPlayer(dealer, agent, chooser, out, logging.Nop(), opts), out
}

func runWithTimeout(t *testing.T, p *Player) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Run(ctx)
}

func TestAutoDealPlaysToGameOver(t *testing.T) {
	p, out := newGame(t, 2, immediateScheduler{}, "1\n3\n", Options{})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	for _, want := range []string{"ROUND 1 REVEAL", "ROUND 2 REVEAL", "No more prompts! Game over."} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestStopThenManualNext(t *testing.T) {
	p, out := newGame(t, 2, heldScheduler{}, "stop\nnine\n2\nnext\n1\nnext\n", Options{})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Auto-deal stopped.") {
		t.Errorf("stop not acknowledged")
	}
	if !strings.Contains(text, "Send a number 1-7") {
		t.Errorf("bad pick not rejected")
	}
	if !strings.Contains(text, "Game over.") {
		t.Errorf("game did not finish:\n%s", text)
	}
	hist, err := p.dealer.History()
	if err != nil || len(hist) != 2 {
		t.Fatalf("history = %d rounds, err %v", len(hist), err)
	}
}

func TestMaxRoundsEndsGame(t *testing.T) {
	p, out := newGame(t, 5, heldScheduler{}, "4\n", Options{MaxRounds: 1})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Played 1 rounds.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestEndOfInputQuits(t *testing.T) {
	p, _ := newGame(t, 3, heldScheduler{}, "", Options{})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	st, err := p.dealer.Status()
	if err != nil || st.Phase != domain.PhasePrompt {
		t.Errorf("expected game left at prompt, got %+v (%v)", st, err)
	}
}

func TestNoPromptsIsGameOver(t *testing.T) {
	p, out := newGame(t, 0, heldScheduler{}, "", Options{})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Game over.") {
		t.Errorf("expected game over, got:\n%s", out.String())
	}
}

func TestResponsesRunningOutIsGameOver(t *testing.T) {
	input := strings.Repeat("1\n", domain.HandSize)
	p, out := newGameWith(t, testCards(2*domain.HandSize, 10), immediateScheduler{}, input, Options{})
	if err := runWithTimeout(t, p); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, fmt.Sprintf("ROUND %d REVEAL", domain.HandSize)) {
		t.Errorf("last round not revealed:\n%s", text)
	}
	if !strings.Contains(text, "No more response cards! Game over.") {
		t.Errorf("expected response exhaustion, got:\n%s", text)
	}
	hist, err := p.dealer.History()
	if err != nil || len(hist) != domain.HandSize {
		t.Fatalf("history = %d rounds, err %v", len(hist), err)
	}
}
