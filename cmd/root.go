package cmd

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"josephlewis.net/microsh/core"
	"josephlewis.net/microsh/core/config"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	// Create the config directory on first use so interactive sessions work
	// out of the box; `microsh init` does the same thing loudly.
	return config.Initialize(cfgPath, log.New(ioutil.Discard, "", 0))
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "microsh",
	Short: "A minimal interactive pipeline shell",
	Long: `Microsh turns one line of text into a graph of OS processes connected
by pipes and file redirections, runs them, and reports abnormal terminations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		shell, err := core.NewShell(configuration)
		if err != nil {
			return err
		}
		defer shell.Close()

		return shell.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".microsh")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
}
