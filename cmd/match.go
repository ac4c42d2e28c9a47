package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopassist/shopassist/internal/dialogue"
	"github.com/shopassist/shopassist/internal/intent"
)

var matchCmd = &cobra.Command{
	Use:   "match <text>",
	Short: "Show the nearest greeting phrase for a message",
	Long: `Embeds the message, finds the nearest stored phrase and reports whether
the match is confident. With --state, also shows the dialogue step the
message would trigger from that state.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Bool("json", false, "output the result as JSON")
	matchCmd.Flags().String("state", "", "dialogue state to step from, e.g. awaiting_style")
	matchCmd.Flags().String("pending", "", "pending catalog URL for gender states")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := strings.Join(args, " ")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	stateFlag, _ := cmd.Flags().GetString("state")
	pending, _ := cmd.Flags().GetString("pending")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	matcher, _, err := buildMatcher(ctx, cfg, intent.NewStore(database), log, false)
	if err != nil {
		return err
	}
	res := matcher.Resolve(ctx, text)
	view := res.View(text)

	var step *dialogue.Decision
	if stateFlag != "" {
		d := dialogue.NewMachine().Step(dialogue.Position{
			State:      dialogue.ParseState(stateFlag),
			PendingURL: pending,
		}, text, res)
		step = &d
	}

	if jsonOutput {
		out := struct {
			intent.ResolutionView
			Step *stepView `json:"step,omitempty"`
		}{ResolutionView: view}
		if step != nil {
			out.Step = newStepView(*step)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Query:     %s\n", view.Query)
	if view.Error != "" {
		fmt.Printf("Nearest:   unavailable (%s)\n", view.Error)
	} else {
		fmt.Printf("Nearest:   %s (distance %.4f, threshold %.2f)\n", view.Nearest, view.Distance, matcher.Threshold())
	}
	fmt.Printf("Confident: %v\n", view.Confident)
	fmt.Printf("Reply:     %s\n", view.Reply)

	if step != nil {
		sv := newStepView(*step)
		fmt.Printf("\nStep:      %s -> %s", sv.From, sv.To)
		if sv.Action != "" {
			fmt.Printf(" (%s)", sv.Action)
		}
		fmt.Println()
		fmt.Printf("Bot says:  %s\n", sv.Text)
		if len(sv.Choices) > 0 {
			fmt.Printf("Choices:   %s\n", strings.Join(sv.Choices, ", "))
		}
		if sv.FetchURL != "" {
			fmt.Printf("Fetch:     %s\n", sv.FetchURL)
		}
	}
	return nil
}

type stepView struct {
	From     dialogue.State  `json:"from"`
	To       dialogue.State  `json:"to"`
	Action   dialogue.Action `json:"action,omitempty"`
	Text     string          `json:"text"`
	Choices  []string        `json:"choices,omitempty"`
	FetchURL string          `json:"fetch_url,omitempty"`
}

func newStepView(d dialogue.Decision) *stepView {
	sv := &stepView{From: d.From, To: d.To, Action: d.Action, Text: d.Text, FetchURL: d.FetchURL}
	for _, c := range d.Choices {
		sv.Choices = append(sv.Choices, c.Label)
	}
	return sv
}
