package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage store configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var (
	settingsBackend         string
	settingsNLists          int
	settingsNProbe          int
	settingsThreshold       float64
	settingsMaxResults      int
	settingsRetrainInterval time.Duration
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Changes store settings. Only the flags you pass are updated.
The embedding dimension is fixed at store creation and cannot be changed here.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsBackend, "backend", "", "index backend: bruteforce or ivf")
	settingsSetCmd.Flags().IntVar(&settingsNLists, "nlists", 0, "IVF cluster count")
	settingsSetCmd.Flags().IntVar(&settingsNProbe, "nprobe", 0, "IVF clusters probed per query")
	settingsSetCmd.Flags().Float64Var(&settingsThreshold, "threshold", 0, "default similarity threshold")
	settingsSetCmd.Flags().IntVar(&settingsMaxResults, "max-results", 0, "default result cap")
	settingsSetCmd.Flags().DurationVar(&settingsRetrainInterval, "retrain-interval", 0, "minimum spacing between IVF retraining passes")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Settings:")
	cmd.Println()
	cmd.Printf("  Dimension:        %d\n", settings.Dimension)
	cmd.Printf("  Backend:          %s\n", settings.Backend.Description())
	cmd.Printf("  NLists:           %d\n", settings.NLists)
	cmd.Printf("  NProbe:           %d\n", settings.NProbe)
	cmd.Printf("  Retrain interval: %s\n", settings.RetrainInterval)
	cmd.Printf("  Threshold:        %.2f\n", settings.SimilarityThreshold)
	cmd.Printf("  Max results:      %d\n", settings.MaxResults)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if settingsBackend != "" {
		backend := domain.IndexBackend(settingsBackend)
		if !backend.IsValid() {
			return fmt.Errorf("unknown backend %q: %w", settingsBackend, domain.ErrInvalidArgument)
		}
		settings.Backend = backend
	}
	if settingsNLists > 0 {
		settings.NLists = settingsNLists
	}
	if settingsNProbe > 0 {
		settings.NProbe = settingsNProbe
	}
	if cmd.Flags().Changed("threshold") {
		settings.SimilarityThreshold = settingsThreshold
	}
	if settingsMaxResults > 0 {
		settings.MaxResults = settingsMaxResults
	}
	if settingsRetrainInterval > 0 {
		settings.RetrainInterval = settingsRetrainInterval
	}

	if err := configStore.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved. Index backend changes take effect on restart.")
	return nil
}
