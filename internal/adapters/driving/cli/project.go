package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

var (
	projectUID   string
	projectName  string
	projectType  string
	projectK     int
	projectScore float64
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Create and inspect projects. Only rag projects own a vector index.

Examples:
  neugrove project add --uid docs --name "Product docs" --type rag --k 4 --score 0.3
  neugrove project show docs`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update a project",
	Args:  cobra.NoArgs,
	RunE:  runProjectAdd,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [uid]",
	Short: "Print a project as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func init() {
	projectAddCmd.Flags().StringVar(&projectUID, "uid", "", "public project uid (required)")
	projectAddCmd.Flags().StringVar(&projectName, "name", "", "display name (defaults to the uid)")
	projectAddCmd.Flags().StringVar(&projectType, "type", string(domain.ProjectTypeRAG), "rag, inference or agent")
	projectAddCmd.Flags().IntVar(&projectK, "k", 0, "default number of search hits (0 = gateway default)")
	projectAddCmd.Flags().Float64Var(&projectScore, "score", 0, "default similarity cutoff (0 = gateway default)")
	_ = projectAddCmd.MarkFlagRequired("uid")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	project, err := a.ProjectService.Save(cmd.Context(), domain.Project{
		UID:   projectUID,
		Name:  projectName,
		Type:  domain.ProjectType(projectType),
		K:     projectK,
		Score: projectScore,
	})
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}

	cmd.Printf("Project %s saved (id %d, type %s).\n", project.UID, project.ID, project.Type)
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	project, err := a.ProjectService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
