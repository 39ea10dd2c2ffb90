package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	storage "FediSleuth/db"
	"FediSleuth/internal/models"
)

func (s *SQLiteDB) SaveRun(run *models.SearchRun, groups []*models.ResultGroup) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
	INSERT INTO runs (id, query, kind, days_back, started_at, total, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		total = excluded.total,
		failed = excluded.failed
	`, run.ID, run.Query.Query, run.Query.Kind.String(), run.Query.DaysBack,
		run.StartedAt.UTC(), run.Total, run.Failed)
	if err != nil {
		return fmt.Errorf("保存搜索记录失败: %w", err)
	}

	groupStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO run_groups (run_id, position, platform, label, error)
	VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer groupStmt.Close()

	postStmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO posts (
		run_id, platform, post_id, author, content, created_at,
		media_urls, media_types, likes, shares, url
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer postStmt.Close()

	for i, g := range groups {
		if g == nil {
			continue
		}
		if _, err := groupStmt.Exec(run.ID, i, g.Platform.String(), g.Label, nullString(g.Error)); err != nil {
			return fmt.Errorf("保存分组 %s 失败: %w", g.Platform, err)
		}
		for _, p := range g.Results {
			urls, _ := json.Marshal(nonNil(p.MediaURLs))
			types, _ := json.Marshal(nonNil(p.MediaTypes))
			_, err := postStmt.Exec(run.ID, p.Platform.String(), p.ID, p.Author, p.Content,
				p.CreatedAt.UTC(), string(urls), string(types), p.Likes, p.Shares, p.URL)
			if err != nil {
				return fmt.Errorf("保存帖子 %s 失败: %w", p.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) GetRun(id string) (*models.SearchRun, []*models.ResultGroup, error) {
	run, err := s.scanRun(s.db.QueryRow(`
	SELECT id, query, kind, days_back, started_at, total, failed
	FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, storage.ErrRunNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
	SELECT platform, label, error FROM run_groups
	WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var groups []*models.ResultGroup
	for rows.Next() {
		var platformName, label string
		var errText sql.NullString
		if err := rows.Scan(&platformName, &label, &errText); err != nil {
			return nil, nil, err
		}
		p, err := models.ParsePlatform(platformName)
		if err != nil {
			return nil, nil, err
		}
		groups = append(groups, &models.ResultGroup{Platform: p, Label: label, Results: []*models.Post{}, Error: errText.String})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for _, g := range groups {
		if g.Failed() {
			continue
		}
		postRows, err := s.db.Query(`
		SELECT platform, post_id, author, content, created_at, media_urls, media_types, likes, shares, url
		FROM posts WHERE run_id = ? AND platform = ?
		ORDER BY created_at DESC, id ASC`, id, g.Platform.String())
		if err != nil {
			return nil, nil, err
		}
		posts, err := scanPosts(postRows)
		postRows.Close()
		if err != nil {
			return nil, nil, err
		}
		g.Results = posts
	}

	return run, groups, nil
}

func (s *SQLiteDB) ListRuns(limit int) ([]*models.SearchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
	SELECT id, query, kind, days_back, started_at, total, failed
	FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.SearchRun
	for rows.Next() {
		run, err := s.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteDB) SearchPosts(keyword string, filter models.HistoryFilter, limit int) ([]*models.Post, error) {
	where := []string{"1 = 1"}
	var args []interface{}

	if kw := strings.TrimSpace(keyword); kw != "" {
		where = append(where, "(content LIKE ? OR author LIKE ?)")
		pattern := "%" + kw + "%"
		args = append(args, pattern, pattern)
	}

	if len(filter.Platforms) > 0 {
		placeholders := strings.Repeat("?,", len(filter.Platforms))
		placeholders = placeholders[:len(placeholders)-1]
		where = append(where, "platform IN ("+placeholders+")")
		for _, p := range filter.Platforms {
			args = append(args, p.String())
		}
	}

	if filter.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		where = append(where, "created_at <= ?")
		args = append(args, filter.Until.UTC())
	}

	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := `
	SELECT platform, post_id, author, content, created_at, media_urls, media_types, likes, shares, url
	FROM posts
	WHERE id IN (
		SELECT MAX(id) FROM posts
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY platform, post_id
	)
	ORDER BY created_at DESC
	LIMIT ?`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// DeleteRunsBefore 删除 started_at 早于 t 的搜索记录及其帖子
func (s *SQLiteDB) DeleteRunsBefore(t time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cutoff := t.UTC()
	sub := `SELECT id FROM runs WHERE started_at < ?`
	if _, err := tx.Exec(`DELETE FROM posts WHERE run_id IN (`+sub+`)`, cutoff); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM run_groups WHERE run_id IN (`+sub+`)`, cutoff); err != nil {
		return 0, err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteDB) scanRun(row rowScanner) (*models.SearchRun, error) {
	var run models.SearchRun
	var kind string
	if err := row.Scan(&run.ID, &run.Query.Query, &kind, &run.Query.DaysBack, &run.StartedAt, &run.Total, &run.Failed); err != nil {
		return nil, err
	}
	k, err := models.ParseSearchKind(kind)
	if err != nil {
		return nil, err
	}
	run.Query.Kind = k
	run.StartedAt = run.StartedAt.UTC()
	return &run, nil
}

func scanPosts(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		var (
			p                   models.Post
			platformName        string
			author, content     sql.NullString
			urlsJSON, typesJSON sql.NullString
			url                 sql.NullString
		)
		if err := rows.Scan(&platformName, &p.ID, &author, &content, &p.CreatedAt,
			&urlsJSON, &typesJSON, &p.Likes, &p.Shares, &url); err != nil {
			return nil, err
		}
		pl, err := models.ParsePlatform(platformName)
		if err != nil {
			return nil, err
		}
		p.Platform = pl
		p.Author = author.String
		p.Content = content.String
		p.URL = url.String
		p.CreatedAt = p.CreatedAt.UTC()

		var urls, types []string
		if urlsJSON.Valid && urlsJSON.String != "" {
			if err := json.Unmarshal([]byte(urlsJSON.String), &urls); err != nil {
				return nil, fmt.Errorf("解析 media_urls 失败: %w", err)
			}
		}
		if typesJSON.Valid && typesJSON.String != "" {
			if err := json.Unmarshal([]byte(typesJSON.String), &types); err != nil {
				return nil, fmt.Errorf("解析 media_types 失败: %w", err)
			}
		}
		for i, u := range urls {
			t := ""
			if i < len(types) {
				t = types[i]
			}
			p.AddMedia(u, t)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
