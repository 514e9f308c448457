// Package cli defines Cobra command definitions for the examcoach CLI.
// This file contains the root command, shared flags and session setup.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/config"
	"github.com/examcoach/examcoach/internal/log"
	"github.com/examcoach/examcoach/internal/storage"
	"github.com/examcoach/examcoach/internal/tui"
	"github.com/examcoach/examcoach/internal/tui/app"
)

var version = "dev" // set via ldflags at build time

// renderWidth is the card width used for plain-text output.
const renderWidth = 80

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	apiURL     string
	studentID  int
	debug      bool
}

// NewRootCmd builds the examcoach command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "examcoach",
		Short: "Exam coaching dashboard for the terminal",
		Long: `examcoach submits mock tests to the exam-coaching service and shows
your weak topics, a 7-day study plan, recommendations and progress charts.
Run without a subcommand in a terminal to open the dashboard.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When no subcommand is provided, launch TUI if TTY, show help otherwise
			if !tui.IsTTY() {
				return cmd.Help()
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			s.cfg.StudentID = s.studentID
			tuiApp := app.New(cmd.Context(), s.cfg, s.client, s.logger, s.studentName)
			defer tuiApp.Close()
			return tui.Run(tuiApp)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.examcoach/config.yaml)")
	flags.StringVar(&opts.apiURL, "api", "", "Service base URL, overrides api_base_url")
	flags.IntVar(&opts.studentID, "student", 0, "Student id, overrides the stored and configured id")
	flags.BoolVar(&opts.debug, "debug", false, "Write debug records to the log file")

	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newRegisterCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newSubmitCmd(opts))
	rootCmd.AddCommand(newAnalysisCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newRecommendationsCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.Message(err))
		os.Exit(1)
	}
}

// session is everything a command needs to talk to the service.
type session struct {
	cfg         *config.Config
	logger      *zap.Logger
	store       *storage.Store
	client      *api.Client
	studentID   int
	studentName string
}

// openSession loads configuration, opens the log and credential store and
// builds the gateway. The student id is taken from --student, then the
// stored credentials, then the config file.
func openSession(cmd *cobra.Command, opts *options) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}

	logger, err := log.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StatePath())
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	creds, err := store.LoadCredentials()
	if err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, err
	}

	s := &session{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		studentID: cfg.StudentID,
	}

	clientOpts := []api.Option{api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger)}
	if creds != nil {
		clientOpts = append(clientOpts, api.WithToken(creds.AccessToken))
		if creds.StudentID > 0 {
			s.studentID = creds.StudentID
		}
		s.studentName = creds.StudentName
	}
	if cmd.Flags().Changed("student") {
		s.studentID = opts.studentID
		if s.studentID <= 0 {
			s.studentID = tui.DefaultStudentID
		}
	}
	s.client = api.NewClient(cfg.APIBaseURL, clientOpts...)

	logger.Debug("session opened",
		zap.String("command", cmd.Name()),
		zap.String("api", cfg.APIBaseURL),
		zap.Int("student_id", s.studentID))
	return s, nil
}

// Close releases the credential store and flushes the log.
func (s *session) Close() {
	_ = s.store.Close()
	_ = s.logger.Sync()
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
