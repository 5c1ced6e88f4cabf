package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const collectionFile = "goals.yaml"

var (
	// ErrGoalNotFound is returned by ID resolution when nothing matches.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrPlanNotFound is returned by plan ID resolution when nothing matches.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrAmbiguousID is returned when an ID prefix matches more than one entity.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)

// Store manages the persisted goal collection. Every mutation reads the
// whole collection, applies one change and replaces the whole file.
type Store struct {
	Root string // e.g., ~/.local/share/planlog

	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for derived status.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier allocation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory if it doesn't exist.
func NewStore(root string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &Store{
		Root:  root,
		now:   time.Now,
		newID: uuid.NewString,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CollectionPath returns the path to goals.yaml.
func (s *Store) CollectionPath() string {
	return filepath.Join(s.Root, collectionFile)
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// LoadAll reads the whole collection as stored, without refreshing derived
// state. A missing file is an empty collection.
func (s *Store) LoadAll() ([]*Goal, error) {
	path := s.CollectionPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.log.Info("no collection yet, starting empty", "path", path)
		return []*Goal{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collectionFile, err)
	}
	goals, err := ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", collectionFile, err)
	}
	s.log.Debug("collection loaded", "path", path, "goals", len(goals))
	return goals, nil
}

// SaveAll replaces the whole collection on disk. The new content is written
// to a temporary file in the same directory and renamed into place, so a
// reader sees either the old or the new collection.
func (s *Store) SaveAll(goals []*Goal) error {
	data, err := SerializeCollection(goals)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Root, ".goals-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp collection: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp collection: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp collection: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting collection permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.CollectionPath()); err != nil {
		return fmt.Errorf("replacing %s: %w", collectionFile, err)
	}

	s.log.Debug("collection saved", "path", s.CollectionPath(), "goals", len(goals))
	return nil
}

// Goals returns every goal with progress and status refreshed for today.
func (s *Store) Goals() ([]*Goal, error) {
	goals, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, g := range goals {
		g.Recompute(now)
	}
	return goals, nil
}

// Goal returns a single goal by ID with derived state refreshed.
// ok is false when no goal has that ID.
func (s *Store) Goal(id string) (g *Goal, ok bool, err error) {
	goals, err := s.Goals()
	if err != nil {
		return nil, false, err
	}
	if i := indexOf(goals, id); i >= 0 {
		return goals[i], true, nil
	}
	return nil, false, nil
}

// AddGoal appends a fully built goal to the collection.
func (s *Store) AddGoal(g *Goal) error {
	goals, err := s.LoadAll()
	if err != nil {
		return err
	}
	if indexOf(goals, g.ID) >= 0 {
		return fmt.Errorf("goal %s already exists", g.ID)
	}
	if err := s.SaveAll(append(goals, g)); err != nil {
		return err
	}
	s.log.Info("goal added", "goal", g.ID, "title", g.Title, "plans", len(g.Plans), "logs", len(g.Logs))
	return nil
}

// CreateGoal builds a new goal from explicit input. A freshly created goal
// always starts at zero progress and not-started, whatever its dates say.
// Input that breaks a creation rule (see ValidateGoal) is rejected with
// ErrInvalidGoal and nothing is written.
func (s *Store) CreateGoal(in NewGoal) (*Goal, error) {
	goalID := s.newID()
	g := &Goal{
		ID:          goalID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Progress:    0,
		Status:      StatusNotStarted,
		Plans:       make([]Plan, 0, len(in.Plans)),
		Logs:        []LogEntry{},
	}
	for _, p := range in.Plans {
		g.Plans = append(g.Plans, Plan{
			ID:          s.newID(),
			Title:       p.Title,
			Description: p.Description,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			GoalID:      goalID,
		})
	}
	if err := ValidateGoal(g); err != nil {
		return nil, err
	}

	if err := s.AddGoal(g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGoal replaces the stored goal with the same ID. It reports false and
// writes nothing when the goal does not exist.
func (s *Store) UpdateGoal(g *Goal) (bool, error) {
	goals, err := s.LoadAll()
	if err != nil {
		return false, err
	}
	i := indexOf(goals, g.ID)
	if i < 0 {
		return false, nil
	}
	goals[i] = g
	return true, s.SaveAll(goals)
}

// DeleteGoal removes a goal together with its plans and logs.
func (s *Store) DeleteGoal(id string) (bool, error) {
	goals, err := s.LoadAll()
	if err != nil {
		return false, err
	}
	i := indexOf(goals, id)
	if i < 0 {
		return false, nil
	}
	goals = slices.Delete(goals, i, i+1)
	if err := s.SaveAll(goals); err != nil {
		return false, err
	}
	s.log.Info("goal deleted", "goal", id)
	return true, nil
}

// SetPlanCompleted sets a plan's completed flag and recomputes the owning
// goal's progress and status. It returns nil when the goal or plan is absent.
func (s *Store) SetPlanCompleted(goalID, planID string, completed bool) (*Goal, error) {
	goals, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	i := indexOf(goals, goalID)
	if i < 0 {
		return nil, nil
	}
	g := goals[i]
	p := g.Plan(planID)
	if p == nil {
		return nil, nil
	}

	p.Completed = completed
	g.Recompute(s.now())

	if err := s.SaveAll(goals); err != nil {
		return nil, err
	}
	s.log.Info("plan updated", "goal", g.ID, "plan", planID, "completed", completed,
		"progress", g.Progress, "status", string(g.Status))
	return g, nil
}

// TogglePlan flips a plan's completed flag. It returns nil when the goal or
// plan is absent.
func (s *Store) TogglePlan(goalID, planID string) (*Goal, error) {
	g, ok, err := s.Goal(goalID)
	if err != nil || !ok {
		return nil, err
	}
	p := g.Plan(planID)
	if p == nil {
		return nil, nil
	}
	return s.SetPlanCompleted(goalID, planID, !p.Completed)
}

// AddLog appends a log entry to a goal. Derived state is left alone.
// It returns nil when the goal is absent.
func (s *Store) AddLog(goalID string, in NewLog) (*LogEntry, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("log content is required")
	}
	if err := checkText("log", in.Content); err != nil {
		return nil, err
	}
	if _, err := checkDate("log date", in.Date); err != nil {
		return nil, err
	}

	goals, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	i := indexOf(goals, goalID)
	if i < 0 {
		return nil, nil
	}

	date := in.Date
	if date == "" {
		date = FormatDate(s.now())
	}
	entry := LogEntry{
		ID:             s.newID(),
		Date:           date,
		Content:        in.Content,
		GoalID:         goalID,
		RelatedPlanIDs: append([]string{}, in.RelatedPlanIDs...),
	}
	goals[i].Logs = append(goals[i].Logs, entry)

	if err := s.SaveAll(goals); err != nil {
		return nil, err
	}
	s.log.Info("log added", "goal", goalID, "log", entry.ID, "date", entry.Date)
	return &entry, nil
}

// ResolveGoalID expands ref to a full goal ID. ref may be a full ID or a
// unique prefix of one.
func (s *Store) ResolveGoalID(ref string) (string, error) {
	goals, err := s.LoadAll()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	id, err := resolveID(ids, ref)
	if errors.Is(err, errNoMatch) {
		return "", fmt.Errorf("%w: %s", ErrGoalNotFound, ref)
	}
	return id, err
}

// ResolvePlanID expands ref to the full ID of one of g's plans.
func ResolvePlanID(g *Goal, ref string) (string, error) {
	ids := make([]string, len(g.Plans))
	for i, p := range g.Plans {
		ids[i] = p.ID
	}
	id, err := resolveID(ids, ref)
	if errors.Is(err, errNoMatch) {
		return "", fmt.Errorf("%w: %s", ErrPlanNotFound, ref)
	}
	return id, err
}

// SortedLogs returns g's logs newest first. Entries with the same date keep
// their insertion order; undated or unparsable entries sort last.
func SortedLogs(g *Goal) []LogEntry {
	logs := slices.Clone(g.Logs)
	slices.SortStableFunc(logs, func(a, b LogEntry) int {
		ta, _ := ParseDate(a.Date)
		tb, _ := ParseDate(b.Date)
		return tb.Compare(ta)
	})
	return logs
}

var errNoMatch = errors.New("no match")

func resolveID(ids []string, ref string) (string, error) {
	if ref == "" {
		return "", errNoMatch
	}
	if slices.Contains(ids, ref) {
		return ref, nil
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", errNoMatch
	}
	return match, nil
}

func indexOf(goals []*Goal, id string) int {
	return slices.IndexFunc(goals, func(g *Goal) bool { return g.ID == id })
}
