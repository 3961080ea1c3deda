package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

type _Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) _Logger
}

var (
	loggerMu   sync.RWMutex
	baseLogger *slog.Logger
)

// InitLogger 는 공유 패키지들이 쓰는 전역 로거의 레벨을 설정한다.
func InitLogger(level string) {
	loggerMu.Lock()
	baseLogger = NewBaseLogger(level)
	loggerMu.Unlock()
}

// Logger 는 key/value 형태의 인자를 구조화 필드로 바꿔 출력하는 로거를 돌려준다.
// InitLogger 가 호출되지 않았다면 config.yaml 을 읽지 않고 info 레벨로 동작한다.
func Logger() _Logger {
	loggerMu.RLock()
	lg := baseLogger
	loggerMu.RUnlock()
	if lg == nil {
		level := "info"
		if config != nil {
			level = config.Logging.Level
		}
		InitLogger(level)
		loggerMu.RLock()
		lg = baseLogger
		loggerMu.RUnlock()
	}
	return &kvLogger{logger: lg}
}

// NewBaseLogger 는 datetime/level/message 세 필드만 고정으로 갖는 JSON 콘솔 로거를 만든다.
func NewBaseLogger(level string) *slog.Logger {
	logLevel := slog.LevelByName(strings.ToLower(level))

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

type kvLogger struct {
	logger *slog.Logger
	fields slog.M
}

func (l *kvLogger) record(args []any) *slog.Record {
	m := slog.M{}
	for k, v := range l.fields {
		m[k] = v
	}
	for k, v := range argsToFields(args) {
		m[k] = v
	}
	return l.logger.WithFields(m)
}

func (l *kvLogger) Debug(msg string, args ...any) { l.record(args).Debug(msg) }
func (l *kvLogger) Info(msg string, args ...any)  { l.record(args).Info(msg) }
func (l *kvLogger) Warn(msg string, args ...any)  { l.record(args).Warn(msg) }
func (l *kvLogger) Error(msg string, args ...any) { l.record(args).Error(msg) }

func (l *kvLogger) With(args ...any) _Logger {
	m := slog.M{}
	for k, v := range l.fields {
		m[k] = v
	}
	for k, v := range argsToFields(args) {
		m[k] = v
	}
	return &kvLogger{logger: l.logger, fields: m}
}

// argsToFields 는 "key", value, ... 순서의 인자를 맵으로 변환한다.
// 짝이 맞지 않는 마지막 값은 "!BADKEY" 로 남긴다.
func argsToFields(args []any) slog.M {
	m := slog.M{}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			m["!BADKEY"] = args[i]
			break
		}
		v := args[i+1]
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		m[key] = v
	}
	return m
}
