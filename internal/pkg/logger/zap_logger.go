package logger

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

// piiKeys never reach a log sink with their value. Candidate data is
// referenced by candidate_id only.
var piiKeys = map[string]struct{}{
	"full_name": {},
	"name":      {},
	"email":     {},
	"phone":     {},
	"input":     {},
	"answer":    {},
}

const redacted = "[redacted]"

type ZapLogger struct {
	logger   *zap.Logger
	filePath string
}

func rotatingCore(logFilePath string) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}),
		zap.InfoLevel,
	)
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// NewZapLogger writes JSON lines to a rotated file and mirrors everything to
// stdout (JSON in production, console format otherwise).
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if isProd {
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	}
	stdout := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.DebugLevel)

	return &ZapLogger{
		logger:   zap.New(zapcore.NewTee(rotatingCore(logFilePath), stdout), zap.AddCaller(), zap.AddCallerSkip(1)),
		filePath: logFilePath,
	}
}

// NewIsolatedLogger only writes to its own file. The audit trail mirror uses
// it so data-lifecycle events can be shipped separately from service logs.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return &ZapLogger{
		logger:   zap.New(rotatingCore(logFilePath), zap.AddCaller(), zap.AddCallerSkip(1)),
		filePath: logFilePath,
	}
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func fields(module string, details map[string]interface{}) []zap.Field {
	clean := make(map[string]interface{}, len(details))
	for k, v := range details {
		if _, ok := piiKeys[strings.ToLower(k)]; ok {
			v = redacted
		}
		clean[k] = v
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", clean)}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.logger.Error(message, fields(module, details)...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

type LogEntry struct {
	Id        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Module    string                 `json:"module,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// LogFilter narrows GetLogs. Empty fields match everything.
type LogFilter struct {
	Level       string
	Module      string
	CandidateId string
}

func (f LogFilter) match(e *LogEntry) bool {
	if f.Level != "" && !strings.EqualFold(e.Level, f.Level) {
		return false
	}
	if f.Module != "" && !strings.EqualFold(e.Module, f.Module) {
		return false
	}
	if f.CandidateId != "" {
		id, _ := e.Details["candidate_id"].(string)
		return id == f.CandidateId
	}
	return true
}

// GetLogs pages through the current log file newest first. Rotated archives
// are not read.
func (l *ZapLogger) GetLogs(filter LogFilter, limit, offset int) ([]LogEntry, error) {
	if l.filePath == "" {
		return []LogEntry{}, nil
	}
	file, err := os.Open(l.filePath)
	if os.IsNotExist(err) {
		return []LogEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var matched []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if !filter.match(&entry) {
			continue
		}
		sum := sha1.Sum(scanner.Bytes())
		entry.Id = hex.EncodeToString(sum[:8])
		matched = append(matched, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	page := make([]LogEntry, 0, limit)
	for i := len(matched) - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, matched[i])
	}
	return page, nil
}
