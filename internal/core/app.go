package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	storage "FediSleuth/db"
	dbsqlite "FediSleuth/db/sqlite"

	exporter "FediSleuth/internal/core/export"
	csv "FediSleuth/internal/core/export/csv"
	json "FediSleuth/internal/core/export/json"
	"FediSleuth/internal/models"
	"FediSleuth/internal/platform"
	"FediSleuth/pkg/download"
	"FediSleuth/pkg/logger"
)

var ErrEmptyQuery = errors.New("query cannot be empty")

type App struct {
	db           storage.SearchStorage
	platformCfg  map[models.Platform]platform.Config
	orchestrator *Orchestrator
	downloader   *download.Downloader
	searcher     *Searcher
}

// NewApp 打开历史数据库并按配置构造三个平台；databasePath 为空时使用 ~/.fedisleuth/data/history.db
func NewApp(databasePath string, pCfg map[models.Platform]platform.Config, dlCfg *download.Config) (*App, error) {
	if databasePath == "" {
		homeDir, _ := os.UserHomeDir()
		databasePath = filepath.Join(homeDir, ".fedisleuth", "data", "history.db")
	}
	sqliteDB, err := dbsqlite.NewSQLiteDB(databasePath)
	if err != nil {
		return nil, err
	}

	if pCfg == nil {
		pCfg = map[models.Platform]platform.Config{}
	}
	platforms, err := Build(pCfg)
	if err != nil {
		sqliteDB.Close()
		return nil, err
	}

	if dlCfg == nil {
		dlCfg = download.DefaultConfig()
	}
	client := NewStreamingClient(time.Duration(dlCfg.Timeout)*time.Second, dlCfg.Proxy)
	client.Transport = WithUserAgent(client.Transport, "")
	dl := download.New(dlCfg, download.WithHTTPClient(client))

	app := NewAppWith(sqliteDB, platforms, dl)
	app.platformCfg = pCfg
	return app, nil
}

// NewAppWith 使用现成的组件构造 App，db 可以为 nil（不保存历史）
func NewAppWith(db storage.SearchStorage, platforms [models.PlatformCount]platform.Platform, dl *download.Downloader) *App {
	if dl == nil {
		dl = download.New(nil)
	}
	return &App{
		db:           db,
		platformCfg:  map[models.Platform]platform.Config{},
		orchestrator: NewOrchestrator(platforms),
		downloader:   dl,
		searcher:     NewSearcher(db),
	}
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) GetPlatform(kind models.Platform) (platform.Platform, error) {
	p := a.orchestrator.Platform(kind)
	if p == nil {
		return nil, fmt.Errorf("未知或未实现的平台: %s", kind)
	}
	return p, nil
}

// SearchOutcome 一次搜索的全部结果
type SearchOutcome struct {
	Run     *models.SearchRun
	Groups  []*models.ResultGroup
	Summary Summary
}

// Search 在选中的平台上执行搜索，save 为 true 时写入历史（写入失败只记录日志）
func (a *App) Search(ctx context.Context, q models.SearchQuery, sel models.Selection, save bool) (*SearchOutcome, error) {
	if models.CleanQuery(q.Query) == "" {
		return nil, ErrEmptyQuery
	}
	q.DaysBack = models.ClampDaysBack(q.DaysBack)

	started := time.Now().UTC()
	logger.Info("开始搜索 %s（最近 %d 天）", q, q.DaysBack)
	groups := a.orchestrator.Run(ctx, q, sel)
	summary := Summarize(groups)
	logger.Info("%s", summary)

	run := &models.SearchRun{
		ID:        uuid.NewString(),
		Query:     q,
		StartedAt: started,
		Total:     summary.Total,
		Failed:    summary.Errored,
	}

	if save && a.db != nil {
		log := logger.WithPrefix("History").WithField("run", run.ID)
		if err := a.db.SaveRun(run, groups); err != nil {
			log.Warn("保存搜索历史失败: %v", err)
		} else {
			log.Debug("搜索历史已保存")
		}
	}

	return &SearchOutcome{Run: run, Groups: groups, Summary: summary}, nil
}

// Download 下载一次搜索结果中的全部媒体，返回根目录
func (a *App) Download(ctx context.Context, q *models.SearchQuery, groups []*models.ResultGroup, progress download.ProgressFunc) (string, error) {
	return a.downloader.DownloadAll(ctx, q, groups, progress)
}

// DownloadRun 重新下载一次已保存搜索的媒体
func (a *App) DownloadRun(ctx context.Context, runID string, progress download.ProgressFunc) (string, error) {
	run, groups, err := a.loadRun(runID)
	if err != nil {
		return "", err
	}
	return a.downloader.DownloadAll(ctx, &run.Query, groups, progress)
}

func (a *App) ListRuns(ctx context.Context, limit int) ([]*models.SearchRun, error) {
	if a.db == nil {
		return nil, fmt.Errorf("未配置历史数据库")
	}
	return a.db.ListRuns(limit)
}

// PruneHistory 删除早于 olderThan 的搜索记录
func (a *App) PruneHistory(ctx context.Context, olderThan time.Duration) (int, error) {
	if a.db == nil {
		return 0, fmt.Errorf("未配置历史数据库")
	}
	if olderThan <= 0 {
		return 0, fmt.Errorf("older-than must be positive")
	}
	n, err := a.db.DeleteRunsBefore(time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	logger.Info("已删除 %d 条搜索记录", n)
	return n, nil
}

func (a *App) SearchHistory(ctx context.Context, opts SearchOptions) ([]*models.Post, error) {
	return a.searcher.Search(ctx, opts)
}

// ExportRun 把一次已保存搜索的成功结果导出为 csv 或 json
func (a *App) ExportRun(ctx context.Context, runID, format, outputPath string) error {
	logger.Info("开始导出: run=%s, 格式=%s, 输出=%s", runID, format, outputPath)

	_, groups, err := a.loadRun(runID)
	if err != nil {
		return err
	}

	var posts []*models.Post
	for _, g := range groups {
		if !g.Failed() {
			posts = append(posts, g.Results...)
		}
	}
	if len(posts) == 0 {
		return fmt.Errorf("没有找到可导出的帖子")
	}

	var exp exporter.Exporter
	switch strings.ToLower(format) {
	case "csv":
		exp = csv.NewCSVExporter()
	case "json":
		exp = json.NewJSONExporter()
	default:
		return fmt.Errorf("不支持的导出格式: %s", format)
	}

	if err := exp.Export(posts, outputPath); err != nil {
		return fmt.Errorf("导出失败: %w", err)
	}

	logger.Info("导出成功: %d 条帖子 -> %s", len(posts), outputPath)
	return nil
}

func (a *App) loadRun(runID string) (*models.SearchRun, []*models.ResultGroup, error) {
	if a.db == nil {
		return nil, nil, fmt.Errorf("未配置历史数据库")
	}
	run, groups, err := a.db.GetRun(strings.TrimSpace(runID))
	if err != nil {
		return nil, nil, fmt.Errorf("读取搜索记录 %s 失败: %w", runID, err)
	}
	return run, groups, nil
}
