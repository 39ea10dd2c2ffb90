package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 首次使用发生在多个 goroutine 中，需在 -race 下运行
func TestConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			WithPrefix("worker").Debug("job %d", i)
			_ = Get()
		}(i)
	}
	wg.Wait()
	assert.NotNil(t, Get())
}

func TestPrefixAndField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("debug")
	defer SetLevel("info")

	WithPrefix("Download").WithField("run", "r-1").Info("saved %d files", 3)

	out := buf.String()
	assert.Contains(t, out, "[Download] saved 3 files")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "r-1")

	buf.Reset()
	SetLevel("warn")
	Info("hidden")
	assert.Empty(t, buf.String())
}
