package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"josephlewis.net/microsh/core/logger"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore the shell's session log.",
}

// logsCatCmd prints the raw session records in a human readable form.
var logsCatCmd = &cobra.Command{
	Use:   "cat",
	Short: "Print the session log.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		fd, err := configuration.ReadSessionLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		out := cmd.OutOrStdout()
		return logger.Read(fd, func(r logger.Record) {
			stamp := r.Time.Format(time.RFC3339)
			switch r.Event {
			case logger.EventSpawn:
				fmt.Fprintf(out, "%s spawn\tpid=%d argv=%q\n", stamp, r.PID, r.Argv)
			case logger.EventExit:
				fmt.Fprintf(out, "%s exit\tpid=%d status=%d\n", stamp, r.PID, r.Status)
			case logger.EventSignal:
				fmt.Fprintf(out, "%s signal\tpid=%d signal=%s\n", stamp, r.PID, r.Signal)
			case logger.EventError:
				fmt.Fprintf(out, "%s error\t%s\n", stamp, r.Error)
			}
		})
	},
}

// logsSummaryCmd aggregates the session log: how often each program ran and
// how many runs ended abnormally.
var logsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize spawned programs and abnormal terminations.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		fd, err := configuration.ReadSessionLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		spawns := make(map[string]int)
		var failures, signals int
		if err := logger.Read(fd, func(r logger.Record) {
			switch r.Event {
			case logger.EventSpawn:
				spawns[r.Argv[0]]++
			case logger.EventExit:
				if r.Status != 0 {
					failures++
				}
			case logger.EventSignal:
				signals++
			}
		}); err != nil {
			return err
		}

		var programs []string
		for program := range spawns {
			programs = append(programs, program)
		}
		sort.Slice(programs, func(i, j int) bool {
			if spawns[programs[i]] != spawns[programs[j]] {
				return spawns[programs[i]] > spawns[programs[j]]
			}
			return programs[i] < programs[j]
		})

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 4, ' ', 0)
		defer tw.Flush()

		fmt.Fprintf(tw, "COUNT\tPROGRAM\n")
		for _, program := range programs {
			fmt.Fprintf(tw, "%d\t%s\n", spawns[program], program)
		}
		fmt.Fprintf(tw, "\nnon-zero exits: %d\tsignal deaths: %d\n", failures, signals)
		return nil
	},
}

func init() {
	logsCmd.AddCommand(logsCatCmd)
	logsCmd.AddCommand(logsSummaryCmd)
	rootCmd.AddCommand(logsCmd)
}
