package cli

import (
	"log/slog"
	"os"

	"github.com/Lego1st/quizzess/internal/config"
	"github.com/Lego1st/quizzess/internal/logging"
	"github.com/spf13/cobra"
)

// options is shared by every subcommand; cfg is filled before RunE.
type options struct {
	port       string
	configPath string
	cfg        config.Config
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:          "quizzess",
		Short:        "Author, upload and take quizzes against the quiz backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Log.Level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.port, "port", envPort, "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(
		newStartCmd(opts),
		newMigrateCmd(opts),
		newSubmitCmd(opts),
		newImportCmd(opts),
		newFetchCmd(opts),
	)
	return cmd
}
