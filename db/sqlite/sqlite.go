package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("无法创建目录，请检查权限问题: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库，请检查权限问题: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	sqlDB := &SQLiteDB{db: db}

	if err := sqlDB.initTable(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库创建失败: %w", err)
	}

	return sqlDB, nil
}

func (d *SQLiteDB) Close() error { return d.db.Close() }

func (d *SQLiteDB) initTable() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  query TEXT NOT NULL,
  kind TEXT NOT NULL,            -- user / hashtag
  days_back INTEGER NOT NULL,
  started_at DATETIME NOT NULL,
  total INTEGER NOT NULL DEFAULT 0,
  failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_groups (
  run_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  platform TEXT NOT NULL,
  label TEXT NOT NULL,
  error TEXT,                    -- 非空表示该平台失败/跳过
  PRIMARY KEY (run_id, platform)
);

CREATE TABLE IF NOT EXISTS posts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  platform TEXT NOT NULL,
  post_id TEXT NOT NULL,
  author TEXT,
  content TEXT,
  created_at DATETIME NOT NULL,
  media_urls TEXT,               -- JSON 数组
  media_types TEXT,              -- JSON 数组，与 media_urls 等长
  likes INTEGER DEFAULT 0,
  shares INTEGER DEFAULT 0,
  url TEXT,

  UNIQUE(run_id, platform, post_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_posts_run ON posts(run_id);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
	`

	_, err := d.db.Exec(schema)

	return err
}
