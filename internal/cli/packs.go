package cli

import (
	"math/rand"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"promptresponse/internal/domain"
)

var packsCmd = &cobra.Command{
	Use:   "packs [filter]",
	Short: "List card packs, or the packs a filter selects",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPacks,
}

func runPacks(cmd *cobra.Command, args []string) error {
	env, err := setup("warn")
	if err != nil {
		return err
	}
	defer env.close()

	packs := env.cards.Packs
	if len(args) == 1 {
		packs = domain.SelectPacks(packs, domain.ParsePackFilter(args[0]))
	}

	rows := [][]string{{"Pack", "Official", "White", "Black"}}
	for _, p := range packs {
		rows = append(rows, []string{p.Name, strconv.FormatBool(p.Official), strconv.Itoa(len(p.White)), strconv.Itoa(len(p.Black))})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(cmd.OutOrStdout()).Render(); err != nil {
		return err
	}

	deck, stats := domain.BuildDeck(env.cards, packs, rand.New(rand.NewSource(1)))
	pterm.Fprintln(cmd.OutOrStdout(), pterm.Sprintf("%d packs → %d playable responses, %d playable prompts (%d too long, %d multi-pick skipped)",
		stats.Packs, len(deck.Whites), len(deck.Blacks), stats.SkippedLong, stats.SkippedMultiPick))
	return nil
}
