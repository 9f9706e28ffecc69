package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rpggio/pronix-hub/internal/config"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/spreadsheet"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pronix-hub",
		Short:         "Client relationship hub for the PRONIX mentoring programme",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("PRONIX_CONFIG_PATH", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newExportCmd(),
		newDashboardCmd(),
		newLogsCmd(),
		newAnalyzeCmd(),
	)
	return root
}

// withApp loads configuration, opens the hub and runs fn against it.
func withApp(cmd *cobra.Command, override func(*config.Config), fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if override != nil {
		override(&cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	// Stdout belongs to the command output or, in stdio mode, to JSON-RPC.
	logOut := io.Writer(os.Stderr)
	if cmd.Name() == "serve" && cfg.Transport.Mode == config.TransportHTTP {
		logOut = os.Stdout
	}
	logger, closeLog := newLogger(cfg.Log, logOut)
	defer closeLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the client base with a spreadsheet (.xlsx, .xls or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return withApp(cmd, nil, func(ctx context.Context, a *app) error {
				result, err := a.workbooks.Import(ctx, data, filepath.Base(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d clients\n", result.Count)
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the client base to an .xlsx workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, nil, func(ctx context.Context, a *app) error {
				file, err := a.workbooks.Export(ctx)
				if err != nil {
					return err
				}
				path := file.Filename
				if len(args) == 1 {
					path = args[0]
				}
				if err := os.WriteFile(path, file.Data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%s)\n", path, spreadsheet.SheetName)
				return nil
			})
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print portfolio indicators as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, nil, func(ctx context.Context, a *app) error {
				stats, err := a.dashboard.Get(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func newLogsCmd() *cobra.Command {
	var opts audit.ListOptions
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print change log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, nil, func(ctx context.Context, a *app) error {
				entries, err := a.audit.List(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().StringVar(&opts.ClientID, "client", "", "only entries for this client id")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum entries (0 for all)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "entries to skip")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Generate an AI risk summary for a client and send it to the webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, nil, func(ctx context.Context, a *app) error {
				c, err := a.clients.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), a.analysis.Run(ctx, *c))
			})
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
