package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	DEBUG = logrus.DebugLevel
	INFO  = logrus.InfoLevel
	WARN  = logrus.WarnLevel
	ERROR = logrus.ErrorLevel
)

type Logger struct {
	entry  *logrus.Entry
	prefix string
}

var (
	std     *Logger
	stdOnce sync.Once
)

func newLogger(level string, useColor bool, out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(parseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:     useColor,
		DisableColors:   !useColor,
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	return &Logger{entry: logrus.NewEntry(l)}
}

func Init(level string, useColor bool) {
	stdOnce.Do(func() {
		std = newLogger(level, useColor, os.Stderr)
	})
}

// InitWithFile 日志写入文件，打开失败时退回 stderr
func InitWithFile(level string, useColor bool, logFile string) {
	stdOnce.Do(func() {
		var out io.Writer = os.Stderr
		if logFile != "" {
			if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
				out = file
				useColor = false
			}
		}
		std = newLogger(level, useColor, out)
	})
}

// Get 未初始化时使用 INFO 级别输出到 stderr
func Get() *Logger {
	Init("INFO", true)
	return std
}

func SetLevel(level string) {
	Get().entry.Logger.SetLevel(parseLevel(level))
}

// SetOutput 主要给测试用，把日志丢到 io.Discard
func SetOutput(w io.Writer) {
	Get().entry.Logger.SetOutput(w)
}

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func Debug(format string, v ...interface{}) { Get().Debug(format, v...) }

func Info(format string, v ...interface{}) { Get().Info(format, v...) }

func Warn(format string, v ...interface{}) { Get().Warn(format, v...) }

func Error(format string, v ...interface{}) { Get().Error(format, v...) }

func Fatal(format string, v ...interface{}) {
	Get().Error(format, v...)
	os.Exit(1)
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }

func (l *Logger) Info(format string, v ...interface{}) { l.log(INFO, format, v...) }

func (l *Logger) Warn(format string, v ...interface{}) { l.log(WARN, format, v...) }

func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }

func (l *Logger) log(level Level, format string, v ...interface{}) {
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s", l.prefix, msg)
	}
	l.entry.Log(level, msg)
}

// WithPrefix 返回带固定前缀的子 logger，共享同一输出和级别
func WithPrefix(prefix string) *Logger {
	parent := Get()
	return &Logger{entry: parent.entry, prefix: prefix}
}

// WithField 附加结构化字段
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value), prefix: l.prefix}
}
