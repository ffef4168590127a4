// Package collab coordinates live editing of fragments: it parses and applies
// scripts sent by one client and broadcasts them to the other subscribers.
package collab

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/serroba/editops/internal/editop"
	"github.com/serroba/editops/internal/fragment"
	"github.com/serroba/editops/internal/ws"
)

// ErrTextTooLong is returned when a text exceeds the configured length limit.
var ErrTextTooLong = errors.New("text too long")

// DefaultMaxTextLength bounds the texts a Service accepts, in UTF-16 code units.
const DefaultMaxTextLength = 100000

// DiffSettings holds the options passed to editop.Diff.
type DiffSettings struct {
	IncludeInputText bool `json:"includeInputText" yaml:"include_input_text" mapstructure:"include_input_text"`
	Adjust           bool `json:"adjust"           yaml:"adjust"             mapstructure:"adjust"`
	InsertOnly       bool `json:"insertOnly"       yaml:"insert_only"        mapstructure:"insert_only"`
}

// DefaultDiffSettings matches the defaults of editop.Diff.
func DefaultDiffSettings() DiffSettings {
	return DiffSettings{IncludeInputText: true, Adjust: true}
}

// Override returns a copy with every non-nil argument applied.
func (d DiffSettings) Override(includeInputText, adjust, insertOnly *bool) DiffSettings {
	if includeInputText != nil {
		d.IncludeInputText = *includeInputText
	}

	if adjust != nil {
		d.Adjust = *adjust
	}

	if insertOnly != nil {
		d.InsertOnly = *insertOnly
	}

	return d
}

// Options converts the settings to editop.Diff options.
func (d DiffSettings) Options() []editop.DiffOption {
	return []editop.DiffOption{
		editop.IncludeInputText(d.IncludeInputText),
		editop.Adjust(d.Adjust),
		editop.InsertOnly(d.InsertOnly),
	}
}

// Result is the outcome of a script applied to a fragment.
type Result struct {
	FragmentID string
	fragment.State
	Operations []editop.Operation
}

// Service applies scripts to stored fragments.
type Service struct {
	store         fragment.Store
	hub           *ws.Hub
	logger        *slog.Logger
	maxTextLength int
	diff          DiffSettings
}

// Config holds configuration for creating a service.
type Config struct {
	Store         fragment.Store
	Hub           *ws.Hub // optional; nil disables broadcasting
	Logger        *slog.Logger
	MaxTextLength int
	Diff          *DiffSettings
}

// NewService creates a new editing service.
func NewService(cfg Config) *Service {
	maxTextLength := cfg.MaxTextLength
	if maxTextLength == 0 {
		maxTextLength = DefaultMaxTextLength
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	diff := DefaultDiffSettings()
	if cfg.Diff != nil {
		diff = *cfg.Diff
	}

	return &Service{
		store:         cfg.Store,
		hub:           cfg.Hub,
		logger:        logger,
		maxTextLength: maxTextLength,
		diff:          diff,
	}
}

// DiffDefaults returns the diff settings used when a caller sets none.
func (s *Service) DiffDefaults() DiffSettings {
	return s.diff
}

// MaxTextLength returns the length limit in UTF-16 code units.
func (s *Service) MaxTextLength() int {
	return s.maxTextLength
}

// CheckLength returns ErrTextTooLong if any text exceeds the limit.
func (s *Service) CheckLength(texts ...string) error {
	for _, text := range texts {
		if n := editop.Len(text); n > s.maxTextLength {
			return fmt.Errorf("%w: %d code units, limit is %d", ErrTextTooLong, n, s.maxTextLength)
		}
	}

	return nil
}

// Create stores a new fragment. An empty id gets a generated one.
func (s *Service) Create(id, text string) (*fragment.Fragment, error) {
	if err := s.CheckLength(text); err != nil {
		return nil, err
	}

	return s.store.Create(id, text)
}

// Apply parses script and applies it to the fragment as one unit, then
// broadcasts the canonical script to the other subscribers of the fragment.
func (s *Service) Apply(clientID, fragmentID string, script []string) (Result, error) {
	if err := s.CheckLength(script...); err != nil {
		return Result{}, err
	}

	f, err := s.store.Get(fragmentID)
	if err != nil {
		return Result{}, err
	}

	ops, err := editop.ParseAll(script)
	if err != nil {
		return Result{}, err
	}

	state, err := f.ApplyAll(ops)
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug("applied script", "fragment", fragmentID, "client", clientID, "operations", len(ops))
	s.broadcast(clientID, fragmentID, state.Applied, ops)

	return Result{FragmentID: fragmentID, State: state, Operations: ops}, nil
}

// DiffTo replaces the fragment's text with target and broadcasts the script
// that gets there.
func (s *Service) DiffTo(clientID, fragmentID, target string, settings DiffSettings) (Result, error) {
	if err := s.CheckLength(target); err != nil {
		return Result{}, err
	}

	f, err := s.store.Get(fragmentID)
	if err != nil {
		return Result{}, err
	}

	ops, state := f.Replace(target, settings.Options()...)

	s.logger.Debug("diffed fragment", "fragment", fragmentID, "client", clientID, "operations", len(ops))

	if len(ops) > 0 {
		s.broadcast(clientID, fragmentID, state.Applied, ops)
	}

	return Result{FragmentID: fragmentID, State: state, Operations: ops}, nil
}

// Sync returns the current state of the fragment.
func (s *Service) Sync(fragmentID string) (Result, error) {
	f, err := s.store.Get(fragmentID)
	if err != nil {
		return Result{}, err
	}

	return Result{FragmentID: fragmentID, State: f.Snapshot()}, nil
}

// Delete removes a fragment.
func (s *Service) Delete(fragmentID string) error {
	return s.store.Delete(fragmentID)
}

func (s *Service) broadcast(clientID, fragmentID string, applied int, ops []editop.Operation) {
	if s.hub == nil {
		return
	}

	script := make([]string, 0, len(ops))
	for _, op := range ops {
		script = append(script, op.String())
	}

	s.hub.BroadcastScript(fragmentID, applied, script, clientID)
}
