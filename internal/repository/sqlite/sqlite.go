package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"metromaps/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		ordinal INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lines (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		circular INTEGER NOT NULL DEFAULT 0,
		ordinal INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stops (
		line_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		station_id INTEGER NOT NULL,
		lat REAL,
		lon REAL,
		PRIMARY KEY (line_id, position),
		FOREIGN KEY (line_id) REFERENCES lines(id) ON DELETE CASCADE,
		FOREIGN KEY (station_id) REFERENCES stations(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edits (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		summary TEXT NOT NULL,
		lines JSON,
		stations JSON,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_stops_station ON stops(station_id);
	CREATE INDEX IF NOT EXISTS idx_edits_created ON edits(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// LoadModel loads the complete map from the database
func (r *Repository) LoadModel(ctx context.Context) (*domain.ModelData, error) {
	model := domain.NewModelData()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, lat, lon FROM stations ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       int
			name     string
			lat, lon float64
		)
		if err := rows.Scan(&id, &name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		model.AddStation(domain.NewStation(id, name, domain.NewCoordinate(lat, lon)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}

	lineRows, err := r.db.QueryContext(ctx, `SELECT id, name, color, circular FROM lines ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines: %w", err)
	}
	defer lineRows.Close()

	byID := make(map[int]*domain.Line)
	for lineRows.Next() {
		var (
			id          int
			name, color string
			circular    sql.NullInt64
		)
		if err := lineRows.Scan(&id, &name, &color, &circular); err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		line := domain.NewLine(id, name, color, nullToBool(circular))
		model.AddLine(line)
		byID[id] = line
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines: %w", err)
	}

	if len(model.Stations) == 0 && len(model.Lines) == 0 {
		return nil, nil
	}

	stopRows, err := r.db.QueryContext(ctx, `
		SELECT line_id, station_id, lat, lon
		FROM stops
		ORDER BY line_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stops: %w", err)
	}
	defer stopRows.Close()

	for stopRows.Next() {
		var (
			lineID, stationID int
			lat, lon          sql.NullFloat64
		)
		if err := stopRows.Scan(&lineID, &stationID, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan stop: %w", err)
		}

		line := byID[lineID]
		station := model.StationByID(stationID)
		if line == nil || station == nil {
			return nil, fmt.Errorf("stop references missing line %d or station %d", lineID, stationID)
		}

		stop := model.Link(line, station)
		if loc := nullToCoordinate(lat, lon); loc != nil {
			stop.SetLocation(*loc)
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stops: %w", err)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("stored map is inconsistent: %w", err)
	}

	return model, nil
}

// SaveModel replaces the stored map with model in a single transaction
func (r *Repository) SaveModel(ctx context.Context, model *domain.ModelData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stops", "lines", "stations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stationStmt, err := tx.PrepareContext(ctx, `INSERT INTO stations (id, name, lat, lon, ordinal) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare station insert: %w", err)
	}
	defer stationStmt.Close()

	for ordinal, s := range model.Stations {
		if _, err := stationStmt.ExecContext(ctx, s.ID, s.Name, s.Location.Lat, s.Location.Lon, ordinal); err != nil {
			return fmt.Errorf("failed to insert station %s: %w", s.Name, err)
		}
	}

	lineStmt, err := tx.PrepareContext(ctx, `INSERT INTO lines (id, name, color, circular, ordinal) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare line insert: %w", err)
	}
	defer lineStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `INSERT INTO stops (line_id, position, station_id, lat, lon) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for ordinal, l := range model.Lines {
		if _, err := lineStmt.ExecContext(ctx, l.ID, l.Name, l.Color, boolToInt(l.Circular), ordinal); err != nil {
			return fmt.Errorf("failed to insert line %s: %w", l.Name, err)
		}
		for position, stop := range l.Stops {
			lat, lon := coordinateToNull(stopOverride(stop))
			if _, err := stopStmt.ExecContext(ctx, l.ID, position, stop.Station.ID, lat, lon); err != nil {
				return fmt.Errorf("failed to insert stop %d of line %s: %w", position, l.Name, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES ('saved_at', ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return tx.Commit()
}

// AppendEdit adds an edit to the journal
func (r *Repository) AppendEdit(ctx context.Context, edit *domain.Edit) error {
	if !edit.Kind.Valid() {
		return fmt.Errorf("unknown edit kind %q", edit.Kind)
	}

	args, err := editInsertArgs(edit)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO edits (`+editColumns+`) VALUES (?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert edit: %w", err)
	}
	return nil
}

// ListEdits returns the most recent edits first. A limit <= 0 returns all.
func (r *Repository) ListEdits(ctx context.Context, limit int) ([]domain.Edit, error) {
	query := `SELECT ` + editColumns + ` FROM edits ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	edits := make([]domain.Edit, 0)
	for rows.Next() {
		var row editRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan edit: %w", err)
		}
		edit, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edits: %w", err)
	}

	return edits, nil
}

// SavedAt returns when the map was last saved, or nil if never
func (r *Repository) SavedAt(ctx context.Context) (*time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'saved_at'`).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("failed to parse saved_at: %w", err)
	}
	return &t, nil
}

// stopOverride returns the stop location when it differs from its station's
func stopOverride(stop *domain.Stop) *domain.Coordinate {
	if stop.Location == nil || *stop.Location == stop.Station.Location {
		return nil
	}
	return stop.Location
}
