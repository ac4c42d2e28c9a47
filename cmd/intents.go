package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopassist/shopassist/internal/intent"
)

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "Manage the greeting phrase corpus",
}

var intentsImportCmd = &cobra.Command{
	Use:   "import <file.yml>",
	Short: "Import phrases and replies from a YAML file",
	Long: `Upserts every phrase in the file into the intent store, then embeds the
whole corpus once to check that the embedding backend accepts it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntentsImport,
}

var intentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored phrases and their replies",
	Args:  cobra.NoArgs,
	RunE:  runIntentsList,
}

var intentsDeleteCmd = &cobra.Command{
	Use:   "delete <phrase>",
	Short: "Remove a phrase from the corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := intent.NewStore(database).Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %q\n", args[0])
		return nil
	},
}

func init() {
	intentsImportCmd.Flags().Bool("skip-embed", false, "store phrases without embedding them")
	intentsCmd.AddCommand(intentsImportCmd, intentsListCmd, intentsDeleteCmd)
	rootCmd.AddCommand(intentsCmd)
}

func runIntentsImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	skipEmbed, _ := cmd.Flags().GetBool("skip-embed")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	phrases, err := intent.LoadSeedFile(args[0])
	if err != nil {
		return err
	}
	if len(phrases) == 0 {
		return fmt.Errorf("%s contains no intents", args[0])
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store := intent.NewStore(database)
	for _, p := range phrases {
		if err := store.Upsert(ctx, p); err != nil {
			return fmt.Errorf("importing %q: %w", p.Text, err)
		}
	}
	fmt.Printf("Imported %d phrases from %s\n", len(phrases), args[0])

	if skipEmbed {
		return nil
	}
	_, index, err := buildMatcher(ctx, cfg, store, log, true)
	if err != nil {
		return err
	}
	fmt.Printf("Embedded %d distinct phrases with %s/%s\n", index.Len(), cfg.Embedding.Provider, cfg.Embedding.Model)
	return nil
}

func runIntentsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	phrases, err := intent.NewStore(database).List(context.Background())
	if err != nil {
		return err
	}
	if len(phrases) == 0 {
		fmt.Println("No phrases stored. Run `shopassist intents import <file.yml>` first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHRASE\tREPLY")
	for _, p := range phrases {
		fmt.Fprintf(w, "%s\t%s\n", p.Text, p.Reply)
	}
	return w.Flush()
}
