package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	purgePrefix string
	yesConfirm  bool
)

// purgeCmd deletes every match ingested under a source prefix.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every match of one source",
	Long: `Deletes every match whose external id starts with the given source prefix,
together with its broadcaster attachments.

Examples:
  # Remove everything the TV guide scraper produced
  purge --prefix tvguide-scraped

  # Non-interactive
  purge --prefix ai-extracted --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := strings.TrimSpace(purgePrefix)
		if prefix == "" {
			return errors.New("--prefix is required")
		}
		ctx := context.Background()

		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer d.log.Sync()

		fmt.Printf("About to delete every match with prefix %q\n", prefix)
		if !confirmDestructiveAction() {
			fmt.Println("Aborted")
			return nil
		}

		deleted, err := d.pipeline.PurgeSource(ctx, prefix)
		if err != nil {
			return fmt.Errorf("failed to purge %s: %w", prefix, err)
		}
		d.log.Info("Source purged", zap.String("prefix", prefix), zap.Int64("deleted", deleted))
		fmt.Printf("Deleted %d matches\n", deleted)
		return nil
	},
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func init() {
	purgeCmd.Flags().StringVar(&purgePrefix, "prefix", "", "Source prefix of the matches to delete (e.g. nba, tvguide-scraped)")
	purgeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	RootCmd.AddCommand(purgeCmd)
}
