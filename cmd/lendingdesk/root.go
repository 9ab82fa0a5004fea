package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell/config"
)

const (
	envAdapter = "LENDINGDESK_ADAPTER"
	envJSONLog = "LENDINGDESK_JSON_LOG"
)

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	err = errors.Join(err, a.close())

	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describeError(err))
		return 1
	}

	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lendingdesk",
		Short:         "Lending library ledger",
		Long:          "Manage the catalog, the members and their loans and fees through the lending desk journal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// flag > env > default
			if !cmd.Flags().Changed("adapter") {
				if v := os.Getenv(envAdapter); v != "" {
					a.settings.adapter = v
				}
			}

			if !cmd.Flags().Changed("json-log") {
				if v := os.Getenv(envJSONLog); v != "" {
					jsonLog, err := strconv.ParseBool(v)
					if err != nil {
						return fmt.Errorf("invalid %s value %q: %w", envJSONLog, v, err)
					}

					a.settings.jsonLog = jsonLog
				}
			}

			return a.setup()
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.settings.adapter, "adapter", adapterPGXPool, "Journal adapter (pgxpool, sqldb, sqlx, memory)")
	flags.StringVar(&a.settings.dsn, "dsn", config.PostgresDSN(), "Postgres DSN, defaults to $"+config.PostgresDSNEnvVar)
	flags.BoolVar(&a.settings.jsonLog, "json-log", false, "Log as JSON instead of text, defaults to $"+envJSONLog)
	flags.StringVar(&a.settings.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.settings.lateFeePolicy, "late-fee-policy", policyPlaceholder, "Late fee policy (placeholder, none, fixed)")
	flags.Float64Var(&a.settings.lateFee, "late-fee", 10, "Fee charged on every return by the fixed policy")
	flags.BoolVar(&a.settings.printMetrics, "print-metrics", false, "Print the collected metrics after the command")

	rootCmd.AddCommand(newAddItemCmd(a))
	rootCmd.AddCommand(newRemoveItemCmd(a))
	rootCmd.AddCommand(newRegisterCmd(a))
	rootCmd.AddCommand(newIssueCmd(a))
	rootCmd.AddCommand(newReturnCmd(a))
	rootCmd.AddCommand(newPayCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newCheckpointCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newInitDBCmd(a))
	rootCmd.AddCommand(newDemoCmd(a))
	rootCmd.AddCommand(newSimulateCmd(a))

	return rootCmd
}
