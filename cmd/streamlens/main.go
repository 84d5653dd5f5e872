package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/internal/cli"
	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/config"
	"github.com/streamlens/streamlens/internal/seed"
	"github.com/streamlens/streamlens/internal/server"
	"github.com/streamlens/streamlens/internal/store"
	"github.com/streamlens/streamlens/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "streamlens",
	Short: "streamlens - interactive event stream browser",
	Long: `streamlens is an interactive terminal browser for an append-only
event-log database.

Run without arguments to open the browser: the main screen lists recently
created and recently changed streams, Enter drills into a stream's events,
and Enter again previews a single event's payload. '/' searches for a
stream by name ('$all' browses the global log), 'q' backs out.

By default streamlens browses the local database under ~/.streamlens.
Use --remote to browse a database served by 'streamlens serve'.

Examples:
  streamlens                                 # Browse the local database
  streamlens --remote ws://host:2113/ws      # Browse a remote database
  streamlens read orders                     # Dump a stream's events
  streamlens read '$all' -o json             # Dump the global log as JSON
  streamlens streams                         # Show the stream catalog
  streamlens seed fixtures.jsonc             # Load fixture events
  streamlens serve                           # Serve reads over websocket`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		reader, closer, err := openReader(cfg)
		if err != nil {
			return err
		}
		defer closer()

		return tui.Run(reader, cfg)
	},
}

var readCmd = &cobra.Command{
	Use:   "read <stream>",
	Short: "Dump a stream's events, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		reader, closer, err := openReader(cfg)
		if err != nil {
			return err
		}
		defer closer()

		opts := cli.ReadOptions{
			Stream:   args[0],
			MaxCount: flagMaxCount,
			Output:   flagOutput,
			Query:    flagQuery,
		}
		return cli.Read(cmd.Context(), reader, opts, os.Stdout)
	},
}

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "Show the catalog of recently created and changed streams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		reader, closer, err := openReader(cfg)
		if err != nil {
			return err
		}
		defer closer()

		opts := cli.StreamsOptions{
			MaxCount: flagMaxCount,
			Output:   flagOutput,
		}
		return cli.Streams(cmd.Context(), reader, opts, os.Stdout)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local database's reads over websocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		addr := cfg.Listen
		if flagListen != "" {
			addr = flagListen
		}
		return server.New(s, logger).ListenAndServe(addr)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.jsonc>",
	Short: "Append fixture events from a JSONC file to the local database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		fixture, err := seed.Load(args[0])
		if err != nil {
			return err
		}

		appended, err := seed.Apply(cmd.Context(), s, fixture)
		if err != nil {
			return err
		}

		fmt.Printf("Appended %d events\n", appended)
		return nil
	},
}

var appendCmd = &cobra.Command{
	Use:   "append <stream> <type> [data]",
	Short: "Append one event to a stream in the local database",
	Long: `Append one event. Data is read from the argument or piped from stdin;
valid JSON is stored with the JSON flag set, anything else as an opaque
payload.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		var data []byte
		if len(args) == 3 {
			data = []byte(args[2])
		} else if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read from stdin: %w", err)
			}
		}

		rev, err := s.Append(cmd.Context(), args[0], args[1], data, json.Valid(data) && len(data) > 0)
		if err != nil {
			return err
		}

		fmt.Printf("Appended %d@%s\n", rev, args[0])
		return nil
	},
}

var (
	flagDatabase string
	flagRemote   string
	flagListen   string
	flagOutput   string
	flagQuery    string
	flagMaxCount uint64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "Path to the local database")
	rootCmd.PersistentFlags().StringVar(&flagRemote, "remote", "", "ws:// URL of a streamlens read server")

	readCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	readCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to each JSON payload")
	readCmd.Flags().Uint64Var(&flagMaxCount, "max", 0, "Maximum number of events (default 500)")

	streamsCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	streamsCmd.Flags().Uint64Var(&flagMaxCount, "max", 0, "Maximum entries per list (default 20)")

	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Bind address (default from config)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(streamsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(appendCmd)
}

// setup initializes the config directory and loads settings merged with
// command-line overrides.
func setup() (config.Config, error) {
	if err := config.Initialize(); err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if flagDatabase != "" {
		cfg.Database = flagDatabase
	}
	if flagRemote != "" {
		cfg.Remote = flagRemote
	}

	return cfg, nil
}

// openReader returns the configured read client: the local store, or a
// remote connection when one is configured.
func openReader(cfg config.Config) (client.Reader, func() error, error) {
	if cfg.Remote != "" {
		remote, err := client.Dial(cfg.Remote, time.Duration(cfg.ReadTimeout))
		if err != nil {
			return nil, nil, err
		}
		return remote, remote.Close, nil
	}

	s, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
