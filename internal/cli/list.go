package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sahaara/backend/internal/model/checkin"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	energyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	musicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

func newListCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded check-ins",
		Long:  `List recorded check-ins, newest last.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := opts.openLog()
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.ReadAll(context.Background())
			if err != nil {
				return fmt.Errorf("failed to read check-ins: %w", err)
			}

			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}

			renderList(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent n check-ins")
	return cmd
}

func renderList(w io.Writer, records []checkin.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No check-ins recorded yet.")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Check-ins (%d)", len(records))))
	fmt.Fprintln(w)

	for i, rec := range records {
		fmt.Fprintf(w, "%s %s\n",
			titleStyle.Render(fmt.Sprintf("%d. %s", i+1, displayEmotion(rec.CheckIn))),
			idStyle.Render(displayID(rec)),
		)
		fmt.Fprintf(w, "   energy %s  social %s\n",
			energyStyle.Render(strconv.Itoa(rec.CheckIn.EnergyLevel())),
			rec.CheckIn.Social,
		)
		if rec.AIResponse.StoryHeading != "" {
			fmt.Fprintf(w, "   story  %s\n", rec.AIResponse.StoryHeading)
		}
		if rec.AIResponse.MusicPhrase != "" {
			fmt.Fprintf(w, "   music  %s\n", musicStyle.Render(rec.AIResponse.MusicPhrase))
		}
		if !rec.CreatedAt.IsZero() {
			fmt.Fprintf(w, "   %s\n", dateStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")))
		}
		fmt.Fprintln(w)
	}
}

func displayEmotion(in checkin.CheckIn) string {
	emotion := strings.TrimSpace(in.Emotion)
	if emotion == "" {
		return "(no emotion)"
	}
	return emotion
}

// displayID shortens uuids; records written before ids existed have none.
func displayID(rec checkin.Record) string {
	if rec.ID == "" {
		return "-"
	}
	if len(rec.ID) > 8 {
		return rec.ID[:8]
	}
	return rec.ID
}
