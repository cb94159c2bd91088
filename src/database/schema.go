package database

import "fmt"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_todos (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		text        TEXT NOT NULL,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_todos_user ON daily_todos (user_id)`,

	`CREATE TABLE IF NOT EXISTS monthly_todos (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		text         TEXT NOT NULL,
		repeat_date  INTEGER NOT NULL CHECK (repeat_date BETWEEN 1 AND 31),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_todos_user ON monthly_todos (user_id)`,

	`CREATE TABLE IF NOT EXISTS deadline_tasks (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		text           TEXT NOT NULL,
		created_date   TEXT NOT NULL,
		deadline_date  TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (created_date <= deadline_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deadline_tasks_user ON deadline_tasks (user_id)`,

	`CREATE TABLE IF NOT EXISTS specific_schedules (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		text           TEXT NOT NULL,
		schedule_date  TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_specific_schedules_user_date ON specific_schedules (user_id, schedule_date)`,

	`CREATE TABLE IF NOT EXISTS completions (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		item_id          TEXT NOT NULL,
		item_type        TEXT NOT NULL,
		completion_date  TEXT NOT NULL,
		UNIQUE (item_id, item_type, completion_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completions_user ON completions (user_id)`,

	`CREATE TABLE IF NOT EXISTS daily_memos (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		memo_date   TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, memo_date)
	)`,

	`CREATE TABLE IF NOT EXISTS tax_management (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		tax_type    TEXT NOT NULL,
		tax_amount  NUMERIC(14,2) NOT NULL,
		memo        TEXT NOT NULL DEFAULT '',
		is_paid     BOOLEAN NOT NULL DEFAULT FALSE,
		due_date    TEXT,
		paid_date   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tax_management_user ON tax_management (user_id)`,

	`CREATE TABLE IF NOT EXISTS approval_management (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		client_name         TEXT NOT NULL,
		transaction_amount  NUMERIC(14,2) NOT NULL,
		memo                TEXT NOT NULL DEFAULT '',
		transaction_date    TEXT NOT NULL,
		tax_invoice_issued  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_approval_management_user ON approval_management (user_id)`,

	// 変更を pg_notify で配信する。NOTIFY のペイロードは8000バイト未満なので行の参照だけを送る
	`CREATE OR REPLACE FUNCTION notify_diary_change() RETURNS trigger AS $$
	DECLARE
		rec RECORD;
	BEGIN
		IF TG_OP = 'DELETE' THEN
			rec := OLD;
		ELSE
			rec := NEW;
		END IF;
		PERFORM pg_notify('diary_changes', json_build_object(
			'op', TG_OP,
			'table', TG_TABLE_NAME,
			'owner_id', rec.user_id,
			'id', rec.id
		)::text);
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql`,
}

var changeTables = []string{
	"daily_todos",
	"monthly_todos",
	"deadline_tasks",
	"specific_schedules",
	"completions",
	"daily_memos",
	"tax_management",
	"approval_management",
}

func triggerSQL(table string) string {
	return fmt.Sprintf(`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = '%[1]s_notify') THEN
			CREATE TRIGGER %[1]s_notify
			AFTER INSERT OR UPDATE OR DELETE ON %[1]s
			FOR EACH ROW EXECUTE FUNCTION notify_diary_change();
		END IF;
	END
	$$`, table)
}
