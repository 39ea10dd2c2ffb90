package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"

	"FediSleuth/internal/models"
	"FediSleuth/pkg/logger"
)

// ProgressFunc 接收 [0, 1] 的下载进度，由同一个 goroutine 依次调用
type ProgressFunc func(fraction float64)

type Downloader struct {
	cfg    *Config
	fs     afero.Fs
	client *http.Client
	now    func() time.Time
	log    *logger.Logger
}

type Option func(*Downloader)

func WithFs(fs afero.Fs) Option { return func(d *Downloader) { d.fs = fs } }

func WithHTTPClient(c *http.Client) Option { return func(d *Downloader) { d.client = c } }

func WithClock(now func() time.Time) Option { return func(d *Downloader) { d.now = now } }

func New(cfg *Config, opts ...Option) *Downloader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.Normalize()

	d := &Downloader{
		cfg:    &c,
		fs:     afero.NewOsFs(),
		client: headerTimeoutClient(time.Duration(c.Timeout) * time.Second),
		now:    time.Now,
		log:    logger.WithPrefix("Download"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Downloader) Config() Config { return *d.cfg }

// headerTimeoutClient 超时只作用于连接和响应头，响应体按 ctx 流式读取
func headerTimeoutClient(timeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: t}
}

// DownloadAll 下载所有成功分组中的媒体，返回本次下载的根目录
// 单个文件失败只记录日志；只有没有结果、没有媒体或根目录创建失败时返回错误
func (d *Downloader) DownloadAll(ctx context.Context, sc *models.SearchQuery, groups []*models.ResultGroup, onProgress ProgressFunc) (string, error) {
	posts, total := Flatten(groups)
	if len(posts) == 0 {
		return "", ErrNoResults
	}
	if total == 0 {
		return "", ErrNoMedia
	}

	root := RootPath(d.cfg, sc, d.now())
	if err := d.fs.MkdirAll(root, 0o755); err != nil {
		return "", &DirectoryCreateError{Path: root, Err: err}
	}

	// 平台子目录只在派发任务前创建一次
	dirs := make(map[models.Platform]string)
	broken := make(map[models.Platform]bool)
	for _, p := range posts {
		if p.MediaCount() == 0 {
			continue
		}
		if _, ok := dirs[p.Platform]; ok || broken[p.Platform] {
			continue
		}
		dir := filepath.Join(root, p.Platform.FolderName())
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			d.log.Warn("%v", &DirectoryCreateError{Path: dir, Err: err})
			broken[p.Platform] = true
			continue
		}
		dirs[p.Platform] = dir
	}

	tasks := BuildTasks(posts, func(p models.Platform) string {
		return filepath.Join(root, p.FolderName())
	})

	d.log.Info("开始下载 %d 个文件到 %s（并发 %d）", len(tasks), root, d.cfg.MaxConcurrent)
	if onProgress != nil {
		onProgress(0)
	}

	results := make(chan error, len(tasks))
	collected := make(chan int, 1)
	go func() {
		completed := 0
		for err := range results {
			if err != nil {
				d.log.Warn("%v", err)
				continue
			}
			completed++
			if onProgress != nil {
				onProgress(float64(completed) / float64(total))
			}
		}
		collected <- completed
	}()

	sem := semaphore.NewWeighted(int64(d.cfg.MaxConcurrent))
	var wg sync.WaitGroup
	var cancelErr error
	for i, task := range tasks {
		if broken[task.Platform] {
			results <- &FileDownloadError{URL: task.URL, Err: fmt.Errorf("platform directory unavailable")}
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			cancelErr = err
			for _, rest := range tasks[i:] {
				results <- &FileDownloadError{URL: rest.URL, Err: err}
			}
			break
		}
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			defer sem.Release(1)
			results <- d.fetch(ctx, t)
		}(task)
	}
	wg.Wait()
	close(results)
	completed := <-collected

	d.log.Info("下载结束: %d/%d 个文件成功", completed, total)
	if cancelErr != nil {
		return root, fmt.Errorf("download interrupted: %w", cancelErr)
	}
	return root, nil
}

// fetch 把响应体流式写入目标文件，失败时删除不完整的文件
func (d *Downloader) fetch(ctx context.Context, t Task) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return &FileDownloadError{URL: t.URL, Err: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return &FileDownloadError{URL: t.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FileDownloadError{URL: t.URL, Status: resp.StatusCode}
	}

	f, err := d.fs.Create(t.Path)
	if err != nil {
		return &FileDownloadError{URL: t.URL, Err: err}
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = d.fs.Remove(t.Path)
		return &FileDownloadError{URL: t.URL, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileDownloadError{URL: t.URL, Err: err}
	}
	d.log.Debug("已保存 %s", t.Path)
	return nil
}
