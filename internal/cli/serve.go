package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barh/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	maxBody int64
	timeout time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		maxBody: server.DefaultMaxBodyBytes,
		timeout: server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve renders chart descriptions over HTTP.

  POST /v1/render?format=svg   body: a JSON, TOML or YAML description
  GET  /v1/formats             accepted input and output formats
  GET  /healthz                liveness and build information

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  barh serve --addr :8080
  curl -s --data-binary @sales.json localhost:8080/v1/render > sales.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Config{
				Addr:         opts.addr,
				MaxBodyBytes: opts.maxBody,
				Timeout:      opts.timeout,
				Logger:       loggerFromContext(cmd.Context()),
				Runner:       c.newRunner(),
			})
			printInfo("Listening on %s", StyleValue.Render(srv.Addr()))
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request render timeout")

	return cmd
}
