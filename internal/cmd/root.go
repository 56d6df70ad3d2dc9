package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gitdraft/gitdraft/internal/config"
	"github.com/gitdraft/gitdraft/internal/logging"
	"github.com/gitdraft/gitdraft/internal/workflow"
)

// exitCode carries the workflow outcome out of cobra's Run hooks.
var exitCode int

var (
	flagStageAll    bool
	flagAutoApprove bool
	flagPush        bool
	flagDryRun      bool
	flagCommit      bool
	flagExclude     []string
	flagModel       string
	flagProvider    string
)

var rootCmd = &cobra.Command{
	Use:   "gitdraft",
	Short: "Draft git commit messages with an AI model",
	Long: `Gitdraft stages changes, drafts a commit message with an AI model,
validates it against a configurable schema, asks for approval or
refinement, commits, and optionally pushes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, workflow.Options{
			StageAll:    flagStageAll,
			AutoApprove: flagAutoApprove,
			Push:        flagPush,
			DryRun:      flagDryRun,
			Commit:      flagCommit,
			Exclude:     flagExclude,
		})
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return workflow.ExitError
	}
	return exitCode
}

// run builds the dependency container and hands control to the top-level
// workflow orchestrator.
func run(cmd *cobra.Command, opts workflow.Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flag overrides win over config-file values.
	if flagProvider != "" {
		cfg.Provider.Name = flagProvider
	}
	if flagModel != "" {
		cfg.Provider.Model = flagModel
		cfg.Provider.ModelName = flagModel
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := newLogger(cfg)
	defer func() { _ = log.Close() }()

	deps, err := workflow.NewDeps(cfg, log)
	if err != nil {
		return err
	}

	exitCode = workflow.New(deps).Run(cmd.Context(), opts)
	return nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	if cfg.Logging.Disabled {
		return logging.NopLogger()
	}
	log, err := logging.NewLogger(config.ConfigDir(), cfg.Logging.Level)
	if err != nil {
		return logging.NopLogger()
	}
	return log
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/gitdraft/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.Flags().BoolVarP(&flagStageAll, "all", "a", false, "stage all changes before generating")
	rootCmd.Flags().BoolVarP(&flagAutoApprove, "yes", "y", false, "skip every prompt, accepting defaults")
	rootCmd.Flags().BoolVarP(&flagPush, "push", "p", false, "push after committing")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "resolve staging only, create no commit")
	rootCmd.Flags().BoolVar(&flagCommit, "commit", false, "commit the generated message without a menu")
	rootCmd.Flags().StringSliceVarP(&flagExclude, "exclude", "e", nil, "pathspec patterns to keep out of stage-all")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model identifier override")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "provider override (claude, codex)")
}

func initConfig() {
	// Set defaults first so they're available even without a config file.
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GITDRAFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found).
	_ = viper.ReadInConfig()
}
