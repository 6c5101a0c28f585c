package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"RallyFinder/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists fetched bars to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log logrus.FieldLogger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite bar cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cached_bars (
			symbol     TEXT    NOT NULL,
			period     TEXT    NOT NULL,
			cache_day  TEXT    NOT NULL,
			date       TEXT    NOT NULL,
			open       REAL    NOT NULL,
			high       REAL    NOT NULL,
			low        REAL    NOT NULL,
			close      REAL    NOT NULL,
			volume     INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, period, cache_day, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cached_bars_key ON cached_bars(symbol, period)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(symbol, period string, day time.Time) (*model.PriceSeries, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, open, high, low, close, volume, fetched_at
		FROM cached_bars
		WHERE symbol = ? AND period = ? AND cache_day = ?
		ORDER BY date`,
		symbol, period, day.Format(dateLayout),
	)
	if err != nil {
		return nil, false, fmt.Errorf("query cached bars: %w", err)
	}
	defer rows.Close()

	series := &model.PriceSeries{Symbol: symbol, Period: period}
	for rows.Next() {
		var (
			date      string
			p         model.PricePoint
			fetchedAt int64
		)
		if err := rows.Scan(&date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &fetchedAt); err != nil {
			return nil, false, fmt.Errorf("scan cached bar: %w", err)
		}
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, false, fmt.Errorf("parse cached date %q: %w", date, err)
		}
		series.Points = append(series.Points, p)
		series.FetchedAt = time.Unix(fetchedAt, 0)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(series.Points) == 0 {
		return nil, false, nil
	}
	return series, true, nil
}

func (s *SQLiteStore) Put(series *model.PriceSeries, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cached_bars WHERE symbol = ? AND period = ?`,
		series.Symbol, series.Period); err != nil {
		return fmt.Errorf("clear cached bars: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO cached_bars
		(symbol, period, cache_day, date, open, high, low, close, volume, fetched_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	cacheDay := day.Format(dateLayout)
	fetchedAt := series.FetchedAt.Unix()
	for _, p := range series.Points {
		if _, err := stmt.Exec(series.Symbol, series.Period, cacheDay, p.Date.Format(dateLayout),
			p.Open, p.High, p.Low, p.Close, p.Volume, fetchedAt); err != nil {
			return fmt.Errorf("insert bar %s: %w", p.Date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite bar cache")
	return s.db.Close()
}
