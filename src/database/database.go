package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DB represents the database connection
type DB struct {
	*sql.DB
	logger *logrus.Logger
}

// Config represents database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewDB creates a new database connection
func NewDB(config *Config, logger *logrus.Logger) (*DB, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 接続をテスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 接続プールの設定
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("データベースに接続しました")

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("データベース接続を閉じています")
	return db.DB.Close()
}

// Health checks database health
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// Migrate creates the tables, unique keys and change triggers if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i, err)
		}
	}

	for _, table := range changeTables {
		if _, err := tx.ExecContext(ctx, triggerSQL(table)); err != nil {
			return fmt.Errorf("failed to install change trigger on %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	db.logger.WithField("tables", len(changeTables)).Info("スキーマのマイグレーションが完了しました")
	return nil
}

// FetchRow returns the row of a change-feed table as JSON, or nil when it no longer exists
func (db *DB) FetchRow(ctx context.Context, table, owner, id string) (json.RawMessage, error) {
	if !isChangeTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	// テーブル名は changeTables で確認済み
	query := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t WHERE id = $1 AND user_id = $2`, table)
	var raw []byte
	err := db.QueryRowContext(ctx, query, id, owner).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		db.logger.WithError(err).WithField("table", table).Error("変更された行の取得に失敗")
		return nil, fmt.Errorf("failed to fetch %s row: %w", table, err)
	}
	return json.RawMessage(raw), nil
}

func isChangeTable(table string) bool {
	for _, t := range changeTables {
		if t == table {
			return true
		}
	}
	return false
}
