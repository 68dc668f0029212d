package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"metromaps/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToBool converts sql.NullInt64 to bool (0 = false, non-zero = true)
func nullToBool(ni sql.NullInt64) bool {
	return ni.Valid && ni.Int64 != 0
}

// boolToInt converts a bool to the 0/1 stored in INTEGER flag columns
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullToCoordinate returns nil unless both components are present
func nullToCoordinate(lat, lon sql.NullFloat64) *domain.Coordinate {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	c := domain.NewCoordinate(lat.Float64, lon.Float64)
	return &c
}

// coordinateToNull converts an optional coordinate to nullable columns
func coordinateToNull(c *domain.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lon, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a string list to nullable JSON.
// Returns empty NullString for nil or empty lists.
func marshalToNull(v []string) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Edit Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between editColumns and scanArgs().

// editRow holds all columns from an edit query for scanning
type editRow struct {
	ID           string
	Kind         string
	Summary      string
	LinesJSON    sql.NullString
	StationsJSON sql.NullString
	CreatedAt    time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match editColumns order exactly:
// id, kind, summary, lines, stations, created_at
func (r *editRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,           // 1
		&r.Kind,         // 2
		&r.Summary,      // 3
		&r.LinesJSON,    // 4
		&r.StationsJSON, // 5
		&r.CreatedAt,    // 6
	}
}

// toDomain converts the scanned row to a domain.Edit
func (r *editRow) toDomain() (domain.Edit, error) {
	edit := domain.Edit{
		ID:        r.ID,
		Kind:      domain.EditKind(r.Kind),
		Summary:   r.Summary,
		Lines:     []string{},
		Stations:  []string{},
		CreatedAt: r.CreatedAt,
	}

	if err := unmarshalJSONField(r.LinesJSON, &edit.Lines); err != nil {
		return domain.Edit{}, fmt.Errorf("unmarshal lines: %w", err)
	}
	if err := unmarshalJSONField(r.StationsJSON, &edit.Stations); err != nil {
		return domain.Edit{}, fmt.Errorf("unmarshal stations: %w", err)
	}

	return edit, nil
}

// editColumns returns the SELECT column list for edit queries
const editColumns = `id, kind, summary, lines, stations, created_at`

// editInsertArgs prepares arguments for edit INSERT
// Returns: id, kind, summary, lines, stations, created_at
func editInsertArgs(edit *domain.Edit) ([]interface{}, error) {
	lines, err := marshalToNull(edit.Lines)
	if err != nil {
		return nil, fmt.Errorf("marshal lines: %w", err)
	}
	stations, err := marshalToNull(edit.Stations)
	if err != nil {
		return nil, fmt.Errorf("marshal stations: %w", err)
	}

	return []interface{}{
		edit.ID,
		string(edit.Kind),
		edit.Summary,
		lines,
		stations,
		edit.CreatedAt.UTC(),
	}, nil
}
