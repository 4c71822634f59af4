// Package main is the entry point for exprc, the expression calculator.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jac259/CompilerDesign/pkg/api"
	grpcapi "github.com/jac259/CompilerDesign/pkg/api/grpc"
	"github.com/jac259/CompilerDesign/pkg/config"
	"github.com/jac259/CompilerDesign/pkg/runtime"
	"github.com/jac259/CompilerDesign/pkg/script"
	"github.com/jac259/CompilerDesign/pkg/store"
	"github.com/jac259/CompilerDesign/pkg/types"
	"github.com/jac259/CompilerDesign/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exprc [files...]",
		Short: "Typed integer/boolean expression calculator",
		Long: `exprc reads one statement per line from the named files, or from stdin,
and prints each statement's canonical form and result.

  var int x = 2 + 3     declare a variable
  x = x * 2             reassign it
  x > 5 ? x : -x        evaluate an expression

Text after '#' is a comment. The line ":vars" lists declared variables.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("exprc version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Properties file (default ./"+config.DefaultFile+" if present)")
	pf.StringP("radix", "r", "", "Output radix: d, h or b (default d, env EXPRC_RADIX)")
	pf.String("color", "", "Colour output: auto, always or never (env EXPRC_COLOR)")

	f := rootCmd.Flags()
	f.BoolP("decimal", "d", false, "Shorthand for --radix=d")
	f.BoolP("hex", "x", false, "Shorthand for --radix=h (-x because -h is help)")
	f.BoolP("binary", "b", false, "Shorthand for --radix=b")
	f.Bool("tokens", false, "Print the token stream of each line")
	rootCmd.MarkFlagsMutuallyExclusive("radix", "decimal", "hex", "binary")

	rootCmd.AddCommand(newCheckCmd(), newServeCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves settings, letting explicit flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("radix"); v != "" {
		r, err := types.ParseRadix(v)
		if err != nil {
			return cfg, err
		}
		cfg.Radix = r
	}
	for name, r := range map[string]types.Radix{"decimal": types.Decimal, "hex": types.Hex, "binary": types.Binary} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			cfg.Radix = r
		}
	}
	if v, _ := cmd.Flags().GetString("color"); v != "" {
		m, err := config.ParseColorMode(v)
		if err != nil {
			return cfg, err
		}
		cfg.Color = m
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tokens, _ := cmd.Flags().GetBool("tokens")
	opts := runtime.Options{Color: cfg.Color.Enabled(), Tokens: tokens}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session := runtime.NewSession(cfg.Radix)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		_, err := runtime.Run(ctx, cmd.InOrStdin(), out, session, opts)
		return err
	}
	for _, path := range args {
		if err := runFile(ctx, path, out, session, opts); err != nil {
			return err
		}
	}
	return nil
}

func runFile(ctx context.Context, path string, out io.Writer, session *runtime.Session, opts runtime.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := runtime.Run(ctx, f, out, session, opts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script.yaml>...",
		Short: "Run YAML scripts and verify their expected results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				s, err := script.Parse(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				report := script.Run(s)
				status := "ok"
				if !report.OK() {
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%s\t%s\n%s\n", status, path, report)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d script(s) failed", failed, len(args))
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve expression sessions over HTTP and gRPC",
		RunE:  serve,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().String("sessions-dir", "", "Directory of .expr files to preload as sessions (env SESSIONS_DIR)")
	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetString("sessions-dir"); v != "" {
		cfg.SessionsDir = v
	}
	if cfg.Source != "" {
		log.Printf("Loaded configuration from %s", cfg.Source)
	}

	s := store.New()
	server := api.New(s, cfg.Radix)
	web.New(s, cfg.Radix).Register(server.App())

	if cfg.SessionsDir != "" {
		if err := server.LoadDir(cfg.SessionsDir); err != nil {
			log.Printf("Warning: failed to load sessions directory: %v", err)
		}
	}

	grpcServer := grpcapi.New(s, cfg.Radix)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down exprc...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("exprc listening on %s (radix=%s)", cfg.Addr(), cfg.Radix.Name())
	log.Printf("Web UI: http://%s/ui", cfg.Addr())
	return server.Listen(cfg.Addr())
}
