package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"josephlewis.net/microsh/core/engine"
	"josephlewis.net/microsh/core/logger"
	"josephlewis.net/microsh/core/shell"
)

var runLine string

// runCmd executes a single line without starting the interactive loop. It
// uses the same parse/validate/execute path as the shell.
var runCmd = &cobra.Command{
	Use:   "run -c 'line'",
	Short: "Execute one pipeline line and exit.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		logFd, err := configuration.OpenSessionLog()
		if err != nil {
			return err
		}
		defer logFd.Close()

		parsed, err := shell.Parse(runLine, os.LookupEnv)
		if err != nil {
			return err
		}
		if parsed == nil {
			return nil
		}
		if err := shell.Check(parsed); err != nil {
			return err
		}

		eng := &engine.Engine{Log: logger.New(logFd)}
		return eng.Exec(parsed)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runLine, "command", "c", "", "line to execute")
	runCmd.MarkFlagRequired("command")
	rootCmd.AddCommand(runCmd)
}
