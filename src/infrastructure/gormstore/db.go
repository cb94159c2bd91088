// Package gormstore is the embedded SQLite record store, used when no PostgreSQL server is configured.
package gormstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diary-app/src/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a SQLite database and runs migrations.
func NewDB(dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "diary.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	// logrus.Logger は Printf を持つので gorm のロガーにそのまま渡せる
	dbLogger := gormlogger.New(
		logger,
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if isMemoryDSN(dsn) {
		// インメモリDBは接続ごとに別物になるため1本に固定
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	logger.WithField("dsn", dsn).Info("SQLiteデータベースを開きました")
	return db, nil
}

func migrate(db *gorm.DB) error {
	models := []struct {
		table string
		model interface{}
	}{
		{domain.TableDailyTodos, &domain.DailyTodo{}},
		{domain.TableMonthlyTodos, &domain.MonthlyTodo{}},
		{domain.TableDeadlineTasks, &domain.DeadlineTask{}},
		{domain.TableSpecificSchedules, &domain.SpecificSchedule{}},
		{domain.TableCompletions, &domain.Completion{}},
		{domain.TableDailyMemos, &domain.Memo{}},
		{domain.TableTaxes, &domain.Tax{}},
		{domain.TableApprovals, &domain.Approval{}},
	}
	for _, m := range models {
		if err := db.Table(m.table).AutoMigrate(m.model); err != nil {
			return fmt.Errorf("%s: %w", m.table, err)
		}
	}

	// 自然キーの一意制約。upsert の ON CONFLICT が参照する
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_completions_item_date ON completions (item_id, item_type, completion_date)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_daily_memos_user_date ON daily_memos (user_id, memo_date)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user ON completions (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_specific_schedules_user_date ON specific_schedules (user_id, schedule_date)`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
