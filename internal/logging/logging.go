// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// 库被嵌入调用时默认保持安静，CLI 会通过 SetupLogger 调整等级。
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// SetupLogger 按 verbosity 设置全局等级并输出到 stderr。
func SetupLogger(verbosity int) {
	SetupLoggerWithWriter(verbosity, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
}

// SetupLoggerWithWriter 与 SetupLogger 相同，但写入给定的 writer（测试中使用）。
func SetupLoggerWithWriter(verbosity int, w io.Writer) {
	switch {
	case verbosity <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbosity == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case verbosity == 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger
	log.Debug().Int("verbosity", verbosity).Msg("logger initialized")
}

// GetLogger 返回带 component 字段的子 logger。
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
