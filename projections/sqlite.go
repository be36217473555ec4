package projections

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/zcuddihy/ff-draft-app/cache"
	"github.com/zcuddihy/ff-draft-app/common"
	"github.com/zcuddihy/ff-draft-app/position"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projections (
	season  INTEGER NOT NULL,
	player  TEXT NOT NULL,
	team    TEXT,
	pos     TEXT NOT NULL,
	fpts    REAL,
	adp_avg REAL,
	adp_std REAL,
	PRIMARY KEY (season, player)
)`

// SQLiteSource reads projections from a SQLite database with one
// projections table holding every season.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) a projections database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Import stores projections for a season, replacing any existing rows for
// the same players.
func (s *SQLiteSource) Import(ctx context.Context, season int, projs []Projection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO projections
		(season, player, team, pos, fpts, adp_avg, adp_std) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range projs {
		if _, err := stmt.ExecContext(ctx, season, p.Player, p.Team, p.Pos.String(),
			p.Points, p.ADPMean, p.ADPStd); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Int("season", season).Int("rows", len(projs)).Msg("imported-projections")
	return nil
}

// Projections returns the season's rows in insertion order.
func (s *SQLiteSource) Projections(ctx context.Context, season int) ([]Projection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player, team, pos, fpts, adp_avg, adp_std
		FROM projections WHERE season = ? ORDER BY rowid`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projs []Projection
	for rows.Next() {
		var (
			name, pos         string
			team              sql.NullString
			fpts, mean, stdev sql.NullFloat64
		)
		if err := rows.Scan(&name, &team, &pos, &fpts, &mean, &stdev); err != nil {
			return nil, err
		}
		if !fpts.Valid || !mean.Valid || !stdev.Valid {
			return nil, fmt.Errorf("%w: player %s is missing projection fields", common.ErrDataIntegrity, name)
		}
		p, err := position.FromString(pos)
		if err != nil {
			return nil, err
		}
		projs = append(projs, Projection{
			Player:  name,
			Team:    team.String,
			Pos:     p,
			Points:  fpts.Float64,
			ADPMean: mean.Float64,
			ADPStd:  stdev.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(projs) == 0 {
		return nil, fmt.Errorf("%w: no projections for season %d", common.ErrDataIntegrity, season)
	}
	return projs, nil
}

// ImportCSV copies a projections CSV, plain or gzipped, into the database
// at dbPath under the given season and returns how many rows it stored.
func ImportCSV(ctx context.Context, dbPath, csvPath, encoding string, season int) (int, error) {
	f, err := cache.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	projs, err := ReadCSV(f, encoding)
	if err != nil {
		return 0, err
	}
	src, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	if err := src.Import(ctx, season, projs); err != nil {
		return 0, err
	}
	log.Info().Str("db", dbPath).Int("season", season).Int("rows", len(projs)).Msg("imported-projections-csv")
	return len(projs), nil
}
