package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopassist/shopassist/internal/dialogue"
)

var dialogueCmd = &cobra.Command{
	Use:   "dialogue",
	Short: "Print the dialogue transition table",
	Long:  `Prints every (state, input) pair the product search flow accepts, the action it triggers and the next state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		stateFlag, _ := cmd.Flags().GetString("state")

		if stateFlag != "" {
			state := dialogue.State(stateFlag)
			if !state.Valid() {
				return fmt.Errorf("unknown state %q", stateFlag)
			}
			vocab := dialogue.Vocabulary(state)
			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(vocab)
			}
			if len(vocab) == 0 {
				fmt.Printf("%s accepts free text only (intent matching)\n", state)
				return nil
			}
			for _, v := range vocab {
				fmt.Println(v)
			}
			return nil
		}

		ts := dialogue.Transitions()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ts)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FROM\tINPUT\tACTION\tTO")
		for _, t := range ts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.From, t.Input, t.Action, t.To)
		}
		return w.Flush()
	},
}

func init() {
	dialogueCmd.Flags().Bool("json", false, "output the table as JSON")
	dialogueCmd.Flags().String("state", "", "list only the inputs this state accepts")
	rootCmd.AddCommand(dialogueCmd)
}
