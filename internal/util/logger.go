package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger 创建 logfmt 日志器
// dir 非空时同时写入 dir 下带时间戳的日志文件
func NewLogger(w io.Writer, dir, prefix string) (log.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		logFile := filepath.Join(dir, fmt.Sprintf("%s_%s.log", prefix, timestamp))

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	return logger, closer, nil
}
