package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/config"
	"github.com/examcoach/examcoach/internal/log"
	"github.com/examcoach/examcoach/internal/tui/state"
)

// Model holds the state shared by every panel.
type Model struct {
	// Configuration
	Cfg    *config.Config
	Client *api.Client
	Logger *zap.Logger

	// Application state: active panel, busy overlay, notifications, charts
	State *state.State

	// Identity
	StudentID   int
	StudentName string

	// Student id editor
	EditingStudent bool
	StudentInput   textinput.Model

	// Bubbles components
	Spinner spinner.Model
	Help    help.Model
	Keys    KeyMap

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model. studentName may be empty.
func NewModel(ctx context.Context, cfg *config.Config, client *api.Client, logger *zap.Logger, studentName string) *Model {
	if logger == nil {
		logger = log.Nop()
	}

	ti := textinput.New()
	ti.Placeholder = "student id"
	ti.CharLimit = 9
	ti.Width = 12
	ti.Validate = validateDigits

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = TitleStyle

	return &Model{
		Cfg:          cfg,
		Client:       client,
		Logger:       logger,
		State:        state.New(ctx, cfg.NotificationTTL, logger),
		StudentID:    cfg.StudentID,
		StudentName:  studentName,
		StudentInput: ti,
		Spinner:      sp,
		Help:         help.New(),
		Keys:         DefaultKeyMap,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

var errNotDigit = errors.New("student id must be a number")

// DefaultStudentID is used when the entered id is empty, zero or invalid.
const DefaultStudentID = 1

// ParseStudentID reads a student id typed by the user.
func ParseStudentID(s string) int {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return DefaultStudentID
	}
	return id
}

func validateDigits(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errNotDigit
		}
	}
	return nil
}
