package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"hoopcompare/utils"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrPlayerNotFound = errors.New("player not found")

type Player struct {
	ID       int    `db:"id"`
	FullName string `db:"full_name"`
	FromYear string `db:"from_year"`
	ToYear   string `db:"to_year"`
}

// SeasonStat holds a player's regular-season totals for one team in one
// season. TeamAbbreviation is "TOT" for the combined row of a traded player.
type SeasonStat struct {
	PlayerID         int     `db:"player_id"`
	SeasonID         string  `db:"season_id"`
	TeamID           int     `db:"team_id"`
	TeamAbbreviation string  `db:"team_abbreviation"`
	GP               float64 `db:"gp"`
	MIN              float64 `db:"min"`
	PTS              float64 `db:"pts"`
	REB              float64 `db:"reb"`
	AST              float64 `db:"ast"`
	STL              float64 `db:"stl"`
	BLK              float64 `db:"blk"`
	FGM              float64 `db:"fgm"`
	FGA              float64 `db:"fga"`
	FGPct            float64 `db:"fg_pct"`
	FG3M             float64 `db:"fg3m"`
	FG3A             float64 `db:"fg3a"`
	FG3Pct           float64 `db:"fg3_pct"`
	FTM              float64 `db:"ftm"`
	FTA              float64 `db:"fta"`
	FTPct            float64 `db:"ft_pct"`
}

type DB struct {
	x *sqlx.DB
}

// SetupDatabase creates the database file if needed, opens it and brings the
// schema up to date.
func SetupDatabase(path string) (*DB, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		file, err := os.Create(path)
		if err != nil {
			return nil, utils.ErrorWithTrace(err)
		}
		file.Close()
	} else if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	x, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	x.SetMaxOpenConns(1)

	d := &DB{x: x}
	if err := d.RunMigrations(); err != nil {
		x.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) RunMigrations() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	driver, err := sqlite3.WithInstance(d.x.DB, &sqlite3.Config{})
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	// m is not closed: closing it would close the shared *sql.DB.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.x.Close()
}

func (d *DB) InsertPlayers(ctx context.Context, players []Player) error {
	tx, err := d.x.BeginTxx(ctx, nil)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer tx.Rollback()

	query := `
		REPLACE INTO players (id, full_name, from_year, to_year)
		VALUES (:id, :full_name, :from_year, :to_year)
	`
	for _, p := range players {
		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return utils.ErrorWithTrace(err)
		}
	}
	return tx.Commit()
}

func (d *DB) SelectPlayerNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := d.x.SelectContext(ctx, &names, `SELECT full_name FROM players ORDER BY id`); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return names, nil
}

// SelectPlayerByName matches the full name case-insensitively. Ties go to
// the lowest id.
func (d *DB) SelectPlayerByName(ctx context.Context, name string) (*Player, error) {
	var p Player
	err := d.x.GetContext(ctx, &p,
		`SELECT * FROM players WHERE full_name = ? COLLATE NOCASE ORDER BY id LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return &p, nil
}

// ReplaceSeasonStats swaps all stored rows of a player for rows and records
// when that happened.
func (d *DB) ReplaceSeasonStats(ctx context.Context, playerID int, rows []SeasonStat, fetchedAt time.Time) error {
	tx, err := d.x.BeginTxx(ctx, nil)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_stats WHERE player_id = ?`, playerID); err != nil {
		return utils.ErrorWithTrace(err)
	}

	query := `
		INSERT INTO season_stats (
			player_id, season_id, team_id, team_abbreviation, gp, min, pts,
			reb, ast, stl, blk, fgm, fga, fg_pct, fg3m, fg3a, fg3_pct,
			ftm, fta, ft_pct
		) VALUES (
			:player_id, :season_id, :team_id, :team_abbreviation, :gp, :min, :pts,
			:reb, :ast, :stl, :blk, :fgm, :fga, :fg_pct, :fg3m, :fg3a, :fg3_pct,
			:ftm, :fta, :ft_pct
		)
	`
	for _, r := range rows {
		r.PlayerID = playerID
		if _, err := tx.NamedExecContext(ctx, query, r); err != nil {
			return utils.ErrorWithTrace(err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`REPLACE INTO career_fetches (player_id, fetched_at) VALUES (?, ?)`,
		playerID, fetchedAt.Unix(),
	); err != nil {
		return utils.ErrorWithTrace(err)
	}
	return tx.Commit()
}

func (d *DB) SelectSeasonStats(ctx context.Context, playerID int) ([]SeasonStat, error) {
	rows := []SeasonStat{}
	err := d.x.SelectContext(ctx, &rows,
		`SELECT * FROM season_stats WHERE player_id = ? ORDER BY season_id, team_id`, playerID)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return rows, nil
}

// CareerFetchedAt reports when the player's rows were last stored. ok is
// false if they never were.
func (d *DB) CareerFetchedAt(ctx context.Context, playerID int) (t time.Time, ok bool, err error) {
	var unix int64
	err = d.x.GetContext(ctx, &unix, `SELECT fetched_at FROM career_fetches WHERE player_id = ?`, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, utils.ErrorWithTrace(err)
	}
	return time.Unix(unix, 0), true, nil
}
