package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Operate on ingests",
}

var ingestProcessCmd = &cobra.Command{
	Use:   "process [ingest-id]",
	Short: "Run the extraction pipeline for one ingest",
	Long: `Run extract, split, embed and store for one ingest in the foreground,
bypassing the queue. Failed ingests can be processed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestProcess,
}

func init() {
	ingestCmd.AddCommand(ingestProcessCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestProcess(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid ingest id %q", args[0])
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	msg, err := a.Processor.Process(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("processing ingest %d: %w", id, err)
	}
	cmd.Println(msg)
	return nil
}
