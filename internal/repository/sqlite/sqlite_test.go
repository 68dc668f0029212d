package sqlite

import (
	"context"
	"reflect"
	"testing"
	"time"

	"metromaps/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	// Enable foreign keys for cascade deletes
	_, err = repo.db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

// sampleModel builds two lines sharing station B:
//
//	1: A B C
//	2: D B E
func sampleModel() *domain.ModelData {
	m := domain.NewModelData()
	names := []string{"A", "B", "C", "D", "E"}
	for i, name := range names {
		m.AddStation(domain.NewStation(i+10, name, domain.NewCoordinate(41.0+float64(i)/100, 2.0+float64(i)/100)))
	}

	l1 := domain.NewLine(1, "1", "#FF0000", false)
	l2 := domain.NewLine(2, "2", "#00FF00", true)
	m.AddLine(l1)
	m.AddLine(l2)

	for _, name := range []string{"A", "B", "C"} {
		m.Link(l1, m.Station(name))
	}
	for _, name := range []string{"D", "B", "E"} {
		m.Link(l2, m.Station(name))
	}
	return m
}

func routes(m *domain.ModelData) map[string][]string {
	out := make(map[string][]string, len(m.Lines))
	for _, l := range m.Lines {
		out[l.Name] = l.StationNames()
	}
	return out
}

// ============================================================================
// Map Tests
// ============================================================================

func TestLoadModelEmpty(t *testing.T) {
	repo := newTestRepo(t)

	model, err := repo.LoadModel(context.Background())
	assertNoError(t, err)
	if model != nil {
		t.Fatalf("expected nil model from empty database, got %+v", model)
	}
}

func TestSaveAndLoadModel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	original := sampleModel()
	original.Lines[0].Stops[1].SetLocation(domain.NewCoordinate(41.5, 2.5))

	assertNoError(t, repo.SaveModel(ctx, original))

	loaded, err := repo.LoadModel(ctx)
	assertNoError(t, err)
	if loaded == nil {
		t.Fatal("expected a model")
	}

	t.Run("structure", func(t *testing.T) {
		assertEqual(t, routes(original), routes(loaded))
		assertEqual(t, original.StationNames(), loaded.StationNames())
		assertEqual(t, original.LineNames(), loaded.LineNames())
	})

	t.Run("line attributes", func(t *testing.T) {
		l2 := loaded.Line("2")
		assertEqual(t, 2, l2.ID)
		assertEqual(t, "#00FF00", l2.Color)
		assertEqual(t, true, l2.Circular)
		assertEqual(t, false, loaded.Line("1").Circular)
	})

	t.Run("station attributes", func(t *testing.T) {
		c := loaded.Station("C")
		assertEqual(t, 12, c.ID)
		assertEqual(t, original.Station("C").Location, c.Location)
	})

	t.Run("stop location override", func(t *testing.T) {
		assertEqual(t, domain.NewCoordinate(41.5, 2.5), loaded.Line("1").Stops[1].EffectiveLocation())
		assertEqual(t, loaded.Station("B").Location, loaded.Line("2").Stops[1].EffectiveLocation())
	})

	t.Run("cross links", func(t *testing.T) {
		assertNoError(t, loaded.Validate())
		b := loaded.Station("B")
		assertEqual(t, 2, len(b.Stops))
		for _, stop := range b.Stops {
			if stop.Station != b {
				t.Errorf("stop of B points at %s", stop.StationName())
			}
		}
	})
}

func TestSaveModelReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.SaveModel(ctx, sampleModel()))

	smaller := domain.NewModelData()
	x := domain.NewStation(1, "X", domain.NewCoordinate(0, 0))
	y := domain.NewStation(2, "Y", domain.NewCoordinate(1, 1))
	smaller.AddStation(x)
	smaller.AddStation(y)
	line := domain.NewLine(7, "7", "", false)
	smaller.AddLine(line)
	smaller.Link(line, x)
	smaller.Link(line, y)

	assertNoError(t, repo.SaveModel(ctx, smaller))

	loaded, err := repo.LoadModel(ctx)
	assertNoError(t, err)
	assertEqual(t, map[string][]string{"7": {"X", "Y"}}, routes(loaded))
	assertEqual(t, []string{"X", "Y"}, loaded.StationNames())
}

func TestSaveModelKeepsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := domain.NewModelData()
	// ids deliberately out of order
	for i, name := range []string{"Z", "Y", "X"} {
		m.AddStation(domain.NewStation(30-i, name, domain.NewCoordinate(0, float64(i))))
	}
	late := domain.NewLine(9, "9", "", false)
	early := domain.NewLine(3, "3", "", false)
	m.AddLine(late)
	m.AddLine(early)
	m.Link(late, m.Station("X"))
	m.Link(late, m.Station("Z"))
	m.Link(early, m.Station("Y"))
	m.Link(early, m.Station("X"))

	assertNoError(t, repo.SaveModel(ctx, m))
	loaded, err := repo.LoadModel(ctx)
	assertNoError(t, err)

	assertEqual(t, []string{"Z", "Y", "X"}, loaded.StationNames())
	assertEqual(t, []string{"9", "3"}, loaded.LineNames())
	assertEqual(t, []string{"X", "Z"}, loaded.Line("9").StationNames())
}

func TestSaveModelDuplicateIDFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.SaveModel(ctx, sampleModel()))

	bad := sampleModel()
	bad.Stations[1].ID = bad.Stations[0].ID

	if err := repo.SaveModel(ctx, bad); err == nil {
		t.Fatal("expected error for duplicate station id")
	}

	// the failed save must not have touched the stored map
	loaded, err := repo.LoadModel(ctx)
	assertNoError(t, err)
	assertEqual(t, routes(sampleModel()), routes(loaded))
}

func TestLoadModelRejectsInconsistentRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.SaveModel(ctx, sampleModel()))

	// leave line 1 with a single stop
	_, err := repo.db.Exec("DELETE FROM stops WHERE line_id = 1 AND position > 0")
	assertNoError(t, err)

	model, err := repo.LoadModel(ctx)
	if err == nil {
		t.Fatal("expected error loading a line with one stop")
	}
	if model != nil {
		t.Errorf("expected nil model on error, got %d lines", len(model.Lines))
	}
}

func TestSavedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at, err := repo.SavedAt(ctx)
	assertNoError(t, err)
	if at != nil {
		t.Fatalf("expected no saved_at before first save, got %v", at)
	}

	assertNoError(t, repo.SaveModel(ctx, sampleModel()))

	at, err = repo.SavedAt(ctx)
	assertNoError(t, err)
	if at == nil {
		t.Fatal("expected saved_at after save")
	}
	if time.Since(*at) > time.Minute {
		t.Errorf("saved_at %v is too old", at)
	}
}

// ============================================================================
// Edit Journal Tests
// ============================================================================

func TestEditJournal(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	edits := []*domain.Edit{
		{
			ID:        "e1",
			Kind:      domain.EditCloseStation,
			Summary:   "closed B",
			Lines:     []string{"1", "2"},
			Stations:  []string{"B"},
			CreatedAt: base,
		},
		{
			ID:        "e2",
			Kind:      domain.EditReplacement,
			Summary:   "replacement P1",
			Lines:     []string{"1"},
			Stations:  []string{"D", "E", "F"},
			CreatedAt: base.Add(time.Minute),
		},
		{
			ID:        "e3",
			Kind:      domain.EditAlternative,
			Summary:   "alternative A-C",
			CreatedAt: base.Add(2 * time.Minute),
		},
	}
	for _, e := range edits {
		assertNoError(t, repo.AppendEdit(ctx, e))
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.ListEdits(ctx, 0)
		assertNoError(t, err)
		assertEqual(t, 3, len(got))
		assertEqual(t, "e3", got[0].ID)
		assertEqual(t, "e2", got[1].ID)
		assertEqual(t, "e1", got[2].ID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.ListEdits(ctx, 2)
		assertNoError(t, err)
		assertEqual(t, 2, len(got))
		assertEqual(t, "e3", got[0].ID)
	})

	t.Run("fields round trip", func(t *testing.T) {
		got, err := repo.ListEdits(ctx, 0)
		assertNoError(t, err)
		e2 := got[1]
		assertEqual(t, domain.EditReplacement, e2.Kind)
		assertEqual(t, "replacement P1", e2.Summary)
		assertEqual(t, []string{"1"}, e2.Lines)
		assertEqual(t, []string{"D", "E", "F"}, e2.Stations)
		if !e2.CreatedAt.Equal(base.Add(time.Minute)) {
			t.Errorf("created_at = %v, want %v", e2.CreatedAt, base.Add(time.Minute))
		}
	})

	t.Run("empty lists", func(t *testing.T) {
		got, err := repo.ListEdits(ctx, 1)
		assertNoError(t, err)
		assertEqual(t, []string{}, got[0].Lines)
		assertEqual(t, []string{}, got[0].Stations)
	})

	t.Run("unknown kind", func(t *testing.T) {
		bad := &domain.Edit{ID: "e4", Kind: "reopen_station", CreatedAt: base}
		if err := repo.AppendEdit(ctx, bad); err == nil {
			t.Error("expected error for unknown edit kind")
		}
		got, err := repo.ListEdits(ctx, 0)
		assertNoError(t, err)
		assertEqual(t, 3, len(got))
	})

	t.Run("duplicate id", func(t *testing.T) {
		if err := repo.AppendEdit(ctx, edits[0]); err == nil {
			t.Error("expected error for duplicate edit id")
		}
	})
}

func TestListEditsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListEdits(context.Background(), 10)
	assertNoError(t, err)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
