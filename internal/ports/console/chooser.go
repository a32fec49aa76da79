package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// NewChooser returns an arrow-key menu on a terminal and a line reader otherwise.
func NewChooser(in io.Reader, out io.Writer, interactive bool) Chooser {
	if interactive {
		return selectChooser{}
	}
	return &lineChooser{scanner: bufio.NewScanner(in), out: out}
}

type selectChooser struct{}

func (selectChooser) Choose(title string, options []string) (string, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(title).
		WithOptions(options).
		WithMaxHeight(len(options)).
		Show()
	if err != nil {
		return "", err
	}
	return choice, nil
}

// lineChooser prints the options and reads one line per choice. "quit" or
// end of input leaves the game.
type lineChooser struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (c *lineChooser) Choose(title string, options []string) (string, error) {
	fmt.Fprintln(c.out, title)
	for _, o := range options {
		fmt.Fprintln(c.out, "  "+o)
	}
	fmt.Fprint(c.out, "> ")
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrQuit
	}
	line := strings.TrimSpace(c.scanner.Text())
	if strings.EqualFold(line, "quit") || strings.EqualFold(line, "q") {
		return "", ErrQuit
	}
	return line, nil
}
