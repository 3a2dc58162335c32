package cli

import (
	"github.com/spf13/cobra"
)

var workerConcurrency int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume ingest jobs from the queue",
	Long: `Consume ingest jobs from the configured queue and run the extraction
pipeline for each one. Stops after in-flight jobs finish on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVarP(&workerConcurrency, "concurrency", "n", 0, "parallel consumers (default worker.concurrency)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	return a.NewWorker(workerConcurrency).Run(cmd.Context())
}
