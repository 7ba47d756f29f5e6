package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sahaara/backend/internal/model/checkin"
)

var errRecordNotFound = errors.New("check-in not found")

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-index>",
		Short: "Show one check-in with its recommendation",
		Long: `Show one check-in with its recommendation.

The argument is either an id prefix as printed by list or the 1-based
position in the list.`,
		Args: cobra.ExactArgs(1),
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

			rec, err := findRecord(records, args[0])
			if err != nil {
				return err
			}

			renderRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func findRecord(records []checkin.Record, key string) (checkin.Record, error) {
	key = strings.TrimSpace(key)

	if index, err := strconv.Atoi(key); err == nil && index >= 1 && index <= len(records) {
		return records[index-1], nil
	}

	var match *checkin.Record
	for i := range records {
		if key != "" && strings.HasPrefix(records[i].ID, key) {
			if match != nil {
				return checkin.Record{}, fmt.Errorf("id prefix %q is ambiguous", key)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return checkin.Record{}, fmt.Errorf("%w: %s", errRecordNotFound, key)
	}
	return *match, nil
}

func renderRecord(w io.Writer, rec checkin.Record) {
	fmt.Fprintln(w, headerStyle.Render("Check-in "+displayID(rec)))
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintln(w, dateStyle.Render(rec.CreatedAt.Local().Format("Mon, 02 Jan 2006 15:04")))
	}
	fmt.Fprintln(w)

	in := rec.CheckIn
	fmt.Fprintf(w, "emotion   %s\n", displayEmotion(in))
	fmt.Fprintf(w, "energy    %s\n", energyStyle.Render(fmt.Sprint(in.EnergyLevel())))
	fmt.Fprintf(w, "social    %s\n", in.Social)
	if len(in.Context) > 0 {
		fmt.Fprintf(w, "context   %s\n", strings.Join(in.Context, ", "))
	}
	if in.Thoughts != "" {
		fmt.Fprintf(w, "thoughts  %s\n", in.Thoughts)
	}
	fmt.Fprintln(w)

	out := rec.AIResponse
	fmt.Fprintln(w, titleStyle.Render(out.StoryHeading))
	fmt.Fprintln(w, out.StoryText)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "reflection  %s\n", out.StoryReflection)
	fmt.Fprintf(w, "try         %s\n", out.RecommendationsLine)
	fmt.Fprintf(w, "music       %s %s\n", musicStyle.Render(out.MusicPhrase), idStyle.Render(out.MusicURL))
}
