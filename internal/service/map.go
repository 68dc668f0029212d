package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"metromaps/internal/alert"
	"metromaps/internal/codec"
	"metromaps/internal/domain"
	"metromaps/internal/editor"
	"metromaps/internal/repository"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrLineNotFound    = errors.New("line not found")
	ErrNotApplied      = errors.New("edit not applicable")
	ErrInvalidInput    = errors.New("invalid input")
)

// EditResult reports an applied edit
type EditResult struct {
	Edit domain.Edit `json:"edit"`

	// Created names the lines the edit added to the map
	Created []string `json:"created,omitempty"`

	AlertID string `json:"alert_id"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Format   string `json:"format"`
	Stations int    `json:"stations"`
	Lines    int    `json:"lines"`
}

// LineSummary is a line with its route as station names
type LineSummary struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Circular bool     `json:"circular,omitempty"`
	Stations []string `json:"stations"`
}

// StationSummary is a station with the names of the lines serving it
type StationSummary struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Location domain.Coordinate `json:"location"`
	Lines    []string          `json:"lines"`
}

// MapService provides business logic for map editing
type MapService struct {
	mu    sync.Mutex
	model *domain.ModelData

	repo     repository.Repository
	feed     *alert.Feed
	eventBus *EventBus
	now      func() time.Time
}

// NewMapService creates a map service over an empty map. Call Load to read
// the stored map.
func NewMapService(repo repository.Repository, feed *alert.Feed, eventBus *EventBus) *MapService {
	return &MapService{
		model:    domain.NewModelData(),
		repo:     repo,
		feed:     feed,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// Load replaces the live map with the stored one. An empty store leaves an
// empty map.
func (s *MapService) Load(ctx context.Context) error {
	model, err := s.repo.LoadModel(ctx)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	if model == nil {
		model = domain.NewModelData()
	}

	s.mu.Lock()
	s.model = model
	s.mu.Unlock()

	log.Printf("Loaded map: %d stations, %d lines", len(model.Stations), len(model.Lines))
	return nil
}

// Seed imports the map file at path when the live map is empty. It reports
// whether the seed was imported.
func (s *MapService) Seed(ctx context.Context, path string) (bool, error) {
	if path == "" || !s.Empty() {
		return false, nil
	}
	if _, err := s.ImportFile(ctx, path); err != nil {
		return false, fmt.Errorf("seed %s: %w", path, err)
	}
	return true, nil
}

// ImportFile imports the map file at path. The format follows the file
// extension.
func (s *MapService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return s.Import(ctx, format, f)
}

// Empty reports whether the live map has neither stations nor lines
func (s *MapService) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.model.Stations) == 0 && len(s.model.Lines) == 0
}

// Snapshot returns the live map as a document
func (s *MapService) Snapshot() *codec.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return codec.NewDocument(s.model)
}

// Lines returns every line in map order
func (s *MapService) Lines() []LineSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineSummary, 0, len(s.model.Lines))
	for _, l := range s.model.Lines {
		out = append(out, LineSummary{
			ID:       l.ID,
			Name:     l.Name,
			Color:    l.Color,
			Circular: l.Circular,
			Stations: l.StationNames(),
		})
	}
	return out
}

// Stations returns every station in map order
func (s *MapService) Stations() []StationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StationSummary, 0, len(s.model.Stations))
	for _, st := range s.model.Stations {
		lines := st.Lines()
		names := make([]string, len(lines))
		for i, l := range lines {
			names[i] = l.Name
		}
		out = append(out, StationSummary{
			ID:       st.ID,
			Name:     st.Name,
			Location: st.Location,
			Lines:    names,
		})
	}
	return out
}

// CloseStation closes the named station on the named lines
func (s *MapService) CloseStation(ctx context.Context, station string, lines []string) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.workingCopy()
	if err != nil {
		return nil, err
	}
	st, err := findStation(working, station)
	if err != nil {
		return nil, err
	}
	ls, err := findLines(working, lines)
	if err != nil {
		return nil, err
	}

	closure := editor.CloseStation(working, st, ls)
	if closure == nil {
		return nil, notApplied("close %s on %s", station, strings.Join(lines, ","))
	}

	summary := fmt.Sprintf("closed %s on line %s", station, strings.Join(lines, ", "))
	if closure.StationRemoved {
		summary += "; station removed"
	}
	edit := s.newEdit(domain.EditCloseStation, summary, lines, []string{station})

	if err := s.commit(ctx, working, edit); err != nil {
		return nil, err
	}

	result := &EditResult{Edit: *edit, AlertID: s.feed.AddClosure(closure)}
	s.eventBus.Publish(Event{Type: EventStationClosed, Payload: result})
	return result, nil
}

// CreateReplacementService replaces the named lines along the named stations
func (s *MapService) CreateReplacementService(ctx context.Context, stations, lines []string) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.workingCopy()
	if err != nil {
		return nil, err
	}
	sts, err := findStations(working, stations)
	if err != nil {
		return nil, err
	}
	ls, err := findLines(working, lines)
	if err != nil {
		return nil, err
	}

	replacement := editor.CreateReplacementService(working, sts, ls)
	if replacement == nil {
		return nil, notApplied("replace %s on %s", strings.Join(stations, ","), strings.Join(lines, ","))
	}

	created := []string{replacement.Line.Name}
	for _, r := range replacement.Residuals {
		created = append(created, r.Name)
	}
	summary := fmt.Sprintf("replacement %s for line %s between %s and %s",
		replacement.Line.Name, strings.Join(lines, ", "),
		replacement.Segment[0].Name, replacement.Segment[len(replacement.Segment)-1].Name)
	edit := s.newEdit(domain.EditReplacement, summary, lines, stations)

	if err := s.commit(ctx, working, edit); err != nil {
		return nil, err
	}

	result := &EditResult{Edit: *edit, Created: created, AlertID: s.feed.AddReplacement(replacement)}
	s.eventBus.Publish(Event{Type: EventReplacementCreated, Payload: result})
	return result, nil
}

// CreateAlternativeService adds a two-stop line between the named stations
func (s *MapService) CreateAlternativeService(ctx context.Context, from, to string) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.workingCopy()
	if err != nil {
		return nil, err
	}
	a, err := findStation(working, from)
	if err != nil {
		return nil, err
	}
	b, err := findStation(working, to)
	if err != nil {
		return nil, err
	}

	alternative := editor.CreateAlternativeService(working, a, b)
	if alternative == nil {
		return nil, notApplied("alternative %s to %s", from, to)
	}

	summary := fmt.Sprintf("alternative %s between %s and %s", alternative.Line.Name, from, to)
	edit := s.newEdit(domain.EditAlternative, summary, []string{alternative.Line.Name}, []string{from, to})

	if err := s.commit(ctx, working, edit); err != nil {
		return nil, err
	}

	result := &EditResult{Edit: *edit, Created: []string{alternative.Line.Name}, AlertID: s.feed.AddAlternative(alternative)}
	s.eventBus.Publish(Event{Type: EventAlternativeCreated, Payload: result})
	return result, nil
}

// Import replaces the live and stored map with the document read from r.
// The alert feed is cleared; the edit journal is kept.
func (s *MapService) Import(ctx context.Context, format string, r io.Reader) (*ImportResult, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	model, err := c.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveModel(ctx, model); err != nil {
		return nil, fmt.Errorf("save map: %w", err)
	}
	s.model = model
	s.feed.Reset()

	result := &ImportResult{
		Format:   c.Format(),
		Stations: len(model.Stations),
		Lines:    len(model.Lines),
	}
	log.Printf("Imported %s map: %d stations, %d lines", result.Format, result.Stations, result.Lines)

	s.eventBus.Publish(Event{Type: EventMapImported, Payload: result})
	return result, nil
}

// Export writes the live map to w in format
func (s *MapService) Export(format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Export(s.model, w)
}

// Edits returns the most recent journal entries first
func (s *MapService) Edits(ctx context.Context, limit int) ([]domain.Edit, error) {
	return s.repo.ListEdits(ctx, limit)
}

// SavedAt returns when the map was last saved, or nil if never
func (s *MapService) SavedAt(ctx context.Context) (*time.Time, error) {
	return s.repo.SavedAt(ctx)
}

// Alerts returns the alert feed describing the applied edits
func (s *MapService) Alerts() *alert.Feed {
	return s.feed
}

// workingCopy returns a deep copy of the live map. Caller holds s.mu.
func (s *MapService) workingCopy() (*domain.ModelData, error) {
	model, err := codec.NewDocument(s.model).Model()
	if err != nil {
		return nil, fmt.Errorf("copy map: %w", err)
	}
	return model, nil
}

// commit saves working, journals edit and makes working the live map.
// Caller holds s.mu.
func (s *MapService) commit(ctx context.Context, working *domain.ModelData, edit *domain.Edit) error {
	if err := working.Validate(); err != nil {
		return fmt.Errorf("edited map is inconsistent: %w", err)
	}
	if err := s.repo.SaveModel(ctx, working); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	s.model = working

	if err := s.repo.AppendEdit(ctx, edit); err != nil {
		// the map is already saved; a lost journal entry is not worth failing the edit
		log.Printf("Warning: failed to journal edit %s: %v", edit.ID, err)
	}

	log.Printf("Applied edit: %s", edit.Summary)
	return nil
}

func (s *MapService) newEdit(kind domain.EditKind, summary string, lines, stations []string) *domain.Edit {
	return &domain.Edit{
		ID:        uuid.NewString(),
		Kind:      kind,
		Summary:   summary,
		Lines:     append([]string{}, lines...),
		Stations:  append([]string{}, stations...),
		CreatedAt: s.now().UTC(),
	}
}

// notApplied logs and returns an ErrNotApplied describing the rejected edit
func notApplied(format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{ErrNotApplied}, args...)...)
	log.Printf("Rejected edit: %v", err)
	return err
}

func findStation(model *domain.ModelData, name string) (*domain.Station, error) {
	st := model.Station(name)
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, name)
	}
	return st, nil
}

func findStations(model *domain.ModelData, names []string) ([]*domain.Station, error) {
	out := make([]*domain.Station, 0, len(names))
	for _, name := range names {
		st, err := findStation(model, name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func findLines(model *domain.ModelData, names []string) ([]*domain.Line, error) {
	out := make([]*domain.Line, 0, len(names))
	for _, name := range names {
		l := model.Line(name)
		if l == nil {
			return nil, fmt.Errorf("%w: %s", ErrLineNotFound, name)
		}
		out = append(out, l)
	}
	return out, nil
}
