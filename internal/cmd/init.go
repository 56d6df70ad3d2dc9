package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitdraft/gitdraft/internal/workflow"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Pick a provider and model and write the config file",
	Long: `Init probes which provider CLIs are installed, asks which one should
draft commit messages and with which model, and writes the choice to
the config file. Run it once before the first commit, or again to
switch providers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, workflow.Options{Init: true})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
