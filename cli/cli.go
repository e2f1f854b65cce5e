package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitError = 1

	configFlag = "config"
)

// Version of the current build, overridden by the build system.
var Version string

var rootCmd = &cobra.Command{
	Use:           "duke <command>",
	Short:         "Probabilistic record deduplication and linkage",
	Long:          "Duke matches, deduplicates, and links records using blocking, weighted comparators, and a naive-Bayes combiner.",
	SilenceErrors: true,
	SilenceUsage:  false,
	Example: heredoc.Doc(`
		$ duke match --config duke.yaml records.ndjson
		$ duke migrate
	`),
	Annotations: map[string]string{
		"group:core": "true",
		"help:learn": heredoc.Doc(`
			Use 'duke <command> --help' for more information about a command.
		`),
	},
}

// Execute builds the "duke" command tree and runs it.
func Execute() {
	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")
	rootCmd.AddCommand(
		cmdMatch(),
		cmdServe(),
		cmdMigrate(),
		configCommand(),
		versionCmd(),
	)
	cmdx.SetHelp(rootCmd)
	rootCmd.AddCommand(cmdx.SetCompletionCmd("duke"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))

	if err := rootCmd.Execute(); err != nil {
		if strings.HasPrefix(err.Error(), "unknown command") {
			if !strings.HasSuffix(err.Error(), "\n") {
				fmt.Println()
			}
			fmt.Println(rootCmd.UsageString())
			os.Exit(exitOK)
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitError)
		}
	}
}
