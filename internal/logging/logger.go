// Package logging writes the vimnav log file under the project directory.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger levels
const (
	DEBUG = iota
	INFO
	WARN
	ERROR
	FATAL
)

var (
	globalMu     sync.Mutex
	globalLogger *Logger

	// discard is used until Initialize runs, so library code and tests
	// never create log files on their own
	discard = &Logger{level: FATAL + 1}

	defaultLogDir  = filepath.Join(".vimnav", "logs")
	defaultLogFile = "vimnav.log"
	maxLogSize     = int64(10 * 1024 * 1024) // 10MB
	maxLogAge      = 7 * 24 * time.Hour
)

// Logger appends leveled lines to a size-rotated file
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	logger  *log.Logger
	level   int
	logPath string

	maxSize     int64
	currentSize int64
}

// Initialize sets up the global logger in <projectDir>/.vimnav/logs.
// Later calls are no-ops.
func Initialize(projectDir string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return nil
	}
	l, err := New(filepath.Join(projectDir, defaultLogDir), INFO)
	if err != nil {
		return err
	}
	globalLogger = l
	return nil
}

// New opens a logger writing to dir/vimnav.log
func New(dir string, level int) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	l := &Logger{
		level:   level,
		logPath: filepath.Join(dir, defaultLogFile),
		maxSize: maxLogSize,
	}
	if err := l.openLogFile(); err != nil {
		return nil, err
	}
	return l, nil
}

// GetLogger returns the global logger, or a silent one before Initialize
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		return discard
	}
	return globalLogger
}

// Shutdown closes the global logger and reverts to the silent one
func Shutdown() error {
	globalMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalMu.Unlock()

	if l == nil {
		return nil
	}
	return l.Close()
}

func (l *Logger) openLogFile() error {
	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if info, err := file.Stat(); err == nil {
		l.currentSize = info.Size()
	}

	l.file = file
	l.logger = log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	return nil
}

func (l *Logger) rotateIfNeeded() error {
	if l.currentSize < l.maxSize {
		return nil
	}

	if l.file != nil {
		l.file.Close()
	}

	timestamp := time.Now().Format("20060102-150405")
	rotatedPath := filepath.Join(filepath.Dir(l.logPath), fmt.Sprintf("vimnav-%s.log", timestamp))
	if err := os.Rename(l.logPath, rotatedPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	if err := l.openLogFile(); err != nil {
		return err
	}

	go l.cleanOldLogs()
	return nil
}

// cleanOldLogs removes rotated files older than maxLogAge
func (l *Logger) cleanOldLogs() {
	logDir := filepath.Dir(l.logPath)
	files, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-maxLogAge)
	for _, file := range files {
		if file.IsDir() || file.Name() == defaultLogFile || filepath.Ext(file.Name()) != ".log" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(logDir, file.Name()))
		}
	}
}

func (l *Logger) write(level int, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.logger == nil {
		return
	}

	l.rotateIfNeeded()

	msg := fmt.Sprintf("[%s] %s", levelString(level), fmt.Sprintf(format, v...))
	l.logger.Output(3, msg)
	l.currentSize += int64(len(msg)) + 1
}

func levelString(level int) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config level name to a level. Unknown names are INFO.
func ParseLevel(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.write(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.write(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.write(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.write(ERROR, format, v...) }

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.write(FATAL, format, v...)
	os.Exit(1)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.logger = nil
	return err
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}

// Package-level helpers

func Debug(format string, v ...interface{}) { GetLogger().Debug(format, v...) }
func Info(format string, v ...interface{})  { GetLogger().Info(format, v...) }
func Warn(format string, v ...interface{})  { GetLogger().Warn(format, v...) }
func Error(format string, v ...interface{}) { GetLogger().Error(format, v...) }

// Fatal logs using the global logger and exits
func Fatal(format string, v ...interface{}) {
	GetLogger().Fatal(format, v...)
}

// SetLevel changes the level of the global logger
func SetLevel(level int) {
	GetLogger().SetLevel(level)
}

// Writer returns an io.Writer logging each write at INFO
func Writer() io.Writer {
	return &logWriter{logger: GetLogger()}
}

type logWriter struct {
	logger *Logger
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.logger.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// RedirectStandardLog sends the standard log package to the log file
func RedirectStandardLog() {
	log.SetOutput(Writer())
	log.SetFlags(0)
}
