package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Alias1177/Decomposer/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ParamsFromEnv builds connection parameters from DB_* environment variables
func ParamsFromEnv() ConnectionParams {
	return ConnectionParams{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS decomposition_runs (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			tick_size DOUBLE PRECISION NOT NULL,
			tick_count INTEGER NOT NULL,
			occ_intercept DOUBLE PRECISION NOT NULL,
			occ_slope DOUBLE PRECISION NOT NULL,
			dir_intercept DOUBLE PRECISION NOT NULL,
			dir_slope DOUBLE PRECISION NOT NULL,
			up_intercept DOUBLE PRECISION NOT NULL,
			up_slope DOUBLE PRECISION NOT NULL,
			down_intercept DOUBLE PRECISION NOT NULL,
			down_slope DOUBLE PRECISION NOT NULL,
			occ_n INTEGER NOT NULL,
			dir_n INTEGER NOT NULL,
			up_n INTEGER NOT NULL,
			down_n INTEGER NOT NULL,
			occ_loglik DOUBLE PRECISION NOT NULL,
			dir_loglik DOUBLE PRECISION NOT NULL,
			up_loglik DOUBLE PRECISION NOT NULL,
			down_loglik DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)

	return err
}

// SaveRun persists a decomposition run. A missing ID or timestamp is filled
// in before the insert.
func (db *DB) SaveRun(run *models.DecompositionRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	p := run.Result.Params
	_, err := db.Exec(`
		INSERT INTO decomposition_runs (
			id, symbol, tick_size, tick_count,
			occ_intercept, occ_slope, dir_intercept, dir_slope,
			up_intercept, up_slope, down_intercept, down_slope,
			occ_n, dir_n, up_n, down_n,
			occ_loglik, dir_loglik, up_loglik, down_loglik,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21)
	`,
		run.ID, run.Symbol, run.TickSize, run.TickCount,
		p.Occurrence.Intercept, p.Occurrence.Slope,
		p.Direction.Intercept, p.Direction.Slope,
		p.UpSize.Intercept, p.UpSize.Slope,
		p.DownSize.Intercept, p.DownSize.Slope,
		run.Result.Occurrence.Observations, run.Result.Direction.Observations,
		run.Result.UpSize.Observations, run.Result.DownSize.Observations,
		run.Result.Occurrence.LogLikelihood, run.Result.Direction.LogLikelihood,
		run.Result.UpSize.LogLikelihood, run.Result.DownSize.LogLikelihood,
		run.CreatedAt,
	)

	return err
}

// GetLatestRun retrieves the most recent run for a symbol, or nil when the
// symbol has never been decomposed.
func (db *DB) GetLatestRun(symbol string) (*models.DecompositionRun, error) {
	var run models.DecompositionRun
	run.Symbol = symbol

	err := db.QueryRow(`
		SELECT
			id, tick_size, tick_count,
			occ_intercept, occ_slope, dir_intercept, dir_slope,
			up_intercept, up_slope, down_intercept, down_slope,
			occ_n, dir_n, up_n, down_n,
			occ_loglik, dir_loglik, up_loglik, down_loglik,
			created_at
		FROM decomposition_runs
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, symbol).Scan(
		&run.ID, &run.TickSize, &run.TickCount,
		&run.Result.Params.Occurrence.Intercept, &run.Result.Params.Occurrence.Slope,
		&run.Result.Params.Direction.Intercept, &run.Result.Params.Direction.Slope,
		&run.Result.Params.UpSize.Intercept, &run.Result.Params.UpSize.Slope,
		&run.Result.Params.DownSize.Intercept, &run.Result.Params.DownSize.Slope,
		&run.Result.Occurrence.Observations, &run.Result.Direction.Observations,
		&run.Result.UpSize.Observations, &run.Result.DownSize.Observations,
		&run.Result.Occurrence.LogLikelihood, &run.Result.Direction.LogLikelihood,
		&run.Result.UpSize.LogLikelihood, &run.Result.DownSize.LogLikelihood,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &run, nil
}

// ListSymbols returns every symbol that has at least one stored run
func (db *DB) ListSymbols() ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT symbol FROM decomposition_runs ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}

	return symbols, rows.Err()
}
