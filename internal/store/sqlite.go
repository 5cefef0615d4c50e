// Package store persists district collections in SQLite so the reporting and
// rendering commands can run without re-reading the source shapefile.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/sells-group/district-atlas/internal/region"
)

// SQLiteStore implements district persistence using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS loads (
	id         TEXT PRIMARY KEY,
	shapefile  TEXT NOT NULL,
	stats_csv  TEXT,
	srid       INTEGER NOT NULL,
	districts  INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS districts (
	district   TEXT PRIMARY KEY,
	geometry   BLOB NOT NULL,
	population REAL,
	schoolcnt  REAL,
	schlppop   REAL,
	load_id    TEXT NOT NULL REFERENCES loads(id)
);

CREATE INDEX IF NOT EXISTS idx_districts_load_id ON districts(load_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load records one ingest of a shapefile plus optional statistics CSV.
type Load struct {
	ID        string
	Shapefile string
	StatsCSV  string
	SRID      int
	Districts int
	CreatedAt time.Time
}

// SaveCollection replaces the stored districts with the given collection and
// records the ingest provenance. Geometries are stored as EWKB.
func (s *SQLiteStore) SaveCollection(ctx context.Context, coll *region.Collection, shapefile, statsCSV string) (*Load, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	load := &Load{
		ID:        uuid.New().String(),
		Shapefile: shapefile,
		StatsCSV:  statsCSV,
		SRID:      coll.SRID,
		Districts: coll.Len(),
		CreatedAt: time.Now().UTC(),
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM districts`); err != nil {
		return nil, eris.Wrap(err, "sqlite: clear districts")
	}

	var statsCSVArg any
	if statsCSV != "" {
		statsCSVArg = statsCSV
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO loads (id, shapefile, stats_csv, srid, districts, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.Shapefile, statsCSVArg, load.SRID, load.Districts, load.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert load")
	}

	for _, rec := range coll.Records {
		data, err := ewkb.Marshal(rec.Geometry, ewkb.NDR)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: encode geometry %s", rec.District)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO districts (district, geometry, population, schoolcnt, schlppop, load_id) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.District, data, nullable(rec.Population), nullable(rec.SchoolCount), nullable(rec.SchoolsPerKPop), load.ID,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert district %s", rec.District)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return load, nil
}

// LoadCollection reads the stored districts back, in district name order.
func (s *SQLiteStore) LoadCollection(ctx context.Context) (*region.Collection, error) {
	var srid int
	err := s.db.QueryRowContext(ctx,
		`SELECT srid FROM loads ORDER BY created_at DESC LIMIT 1`,
	).Scan(&srid)
	if err == sql.ErrNoRows {
		return nil, eris.New("sqlite: no districts loaded")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest load")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT district, geometry, population, schoolcnt, schlppop FROM districts ORDER BY district`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select districts")
	}
	defer rows.Close()

	coll := &region.Collection{SRID: srid}
	for rows.Next() {
		var (
			rec  region.Record
			data []byte
			pop  sql.NullFloat64
			cnt  sql.NullFloat64
			rate sql.NullFloat64
		)
		if err := rows.Scan(&rec.District, &data, &pop, &cnt, &rate); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan district")
		}
		rec.Geometry, err = ewkb.Unmarshal(data)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode geometry %s", rec.District)
		}
		rec.Population = fromNull(pop)
		rec.SchoolCount = fromNull(cnt)
		rec.SchoolsPerKPop = fromNull(rate)
		coll.Records = append(coll.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate districts")
	}
	return coll, nil
}

// LatestLoad returns the most recent ingest record, or nil when nothing has
// been loaded yet.
func (s *SQLiteStore) LatestLoad(ctx context.Context) (*Load, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, shapefile, stats_csv, srid, districts, created_at FROM loads ORDER BY created_at DESC LIMIT 1`,
	)

	var (
		l        Load
		statsCSV sql.NullString
	)
	err := row.Scan(&l.ID, &l.Shapefile, &statsCSV, &l.SRID, &l.Districts, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest load")
	}
	l.StatsCSV = statsCSV.String
	return &l, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
