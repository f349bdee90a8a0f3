package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hervoice/internal/app"
	"github.com/kailas-cloud/hervoice/internal/config"
	logpkg "github.com/kailas-cloud/hervoice/internal/logger"
	chiTransport "github.com/kailas-cloud/hervoice/internal/transport/chi"
	"github.com/kailas-cloud/hervoice/internal/version"
)

// cliOptions are the persistent flags shared by every subcommand.
type cliOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "hervoice-cli",
		Short:         "Query the hervoice story corpus from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a YAML config (default: config/$ENV.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"log level written to stderr (debug, info, warn, error)")

	root.AddCommand(newQueryCmd(opts), newListCmd(opts), newVersionCmd())
	return root
}

func newQueryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <text>",
		Short: "Run the retrieval pipeline and print the JSON reply",
		Long: `Run the retrieval pipeline on a message and print the same JSON
the HTTP API returns for POST /api/chatbot.

Examples:
  hervoice-cli query "我第一次尝试很紧张"
  hervoice-cli query 职业 不确定 | jq '.entries[].id'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				res, err := a.Search.Search(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("query: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), chiTransport.NewChatResponse(&res))
			})
		},
	}
}

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every corpus entry as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				entries, err := a.Catalog.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), chiTransport.NewListResponse(entries))
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hervoice %s\n", version.String())
		},
	}
}

// withApp loads config, builds the application and closes it after fn.
func withApp(ctx context.Context, opts *cliOptions, fn func(a *app.App) error) error {
	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, opts.logLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build application", zap.Error(err))
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
