package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wojciechkepka/notor/internal/logging"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking NOTOR_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("NOTOR_SERVER"); s != "" {
		return s
	}
	return "http://localhost:3693"
}

// NewRootCmd creates the root cobra command for the notor CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "notor",
		Short: "Notor — note-taking backend",
		Long:  "Notor manages notes and tags on a Notor server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, LoadToken(), logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "Notor server URL (or NOTOR_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newNotesCmd(),
		newTagsCmd(),
	)

	return root
}
