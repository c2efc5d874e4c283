package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
)

// Options controls where and how much the logger writes.
type Options struct {
	Level     string // DEBUG, INFO, WARN, ERROR
	Directory string // "-" writes to stdout only
	MaxAge    int    // days
}

// LogFormatter log formatter structure
type LogFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

// Format format entry in custom format
func (f *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	level := f.LevelDesc[entry.Level]

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := ""
	for _, k := range keys {
		fields += fmt.Sprintf(" %s=%v", k, entry.Data[k])
	}
	return []byte(fmt.Sprintf("%s [%s] %s%s\n", timestamp, level, entry.Message, fields)), nil
}

var (
	pruneOnce    sync.Once
	startPruning = func(baseDir string, maxAgeDays int) {
		go deleteOldDateFoldersLoop(baseDir, maxAgeDays)
	}
)

// Init configures the global logrus logger. Calling it again reconfigures
// level and output; the folder pruning loop is started only once.
func Init(opts Options) {
	log.SetFormatter(&LogFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		LevelDesc:       []string{"PANIC", "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"},
	})
	log.SetLevel(parseLevel(opts.Level))

	if opts.Directory == "" || opts.Directory == "-" {
		log.SetOutput(os.Stdout)
		return
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 2
	}

	dateFolder, err := createLogFolder(opts.Directory)
	if err != nil {
		fmt.Println("Error creating log folder, falling back to stdout:", err)
		log.SetOutput(os.Stdout)
		return
	}

	rl, err := initializeLogRotation(dateFolder, opts.MaxAge)
	if err != nil {
		fmt.Println("Error initializing log rotation, falling back to stdout:", err)
		log.SetOutput(os.Stdout)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rl))

	pruneOnce.Do(func() {
		startPruning(opts.Directory, opts.MaxAge)
	})
}

func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARN", "WARNING":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Info logs informational messages
func Info(message string) {
	log.Info(message)
}

// Warn logs warning messages
func Warn(message string) {
	log.Warn(message)
}

// Error logs error messages
func Error(message string) {
	log.Error(message)
}

// Debug logs debug messages
func Debug(message string) {
	log.Debug(message)
}

// Infof logs formatted informational message
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs formatted warning message
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs formatted error message
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debugf logs formatted debug message
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// WithFields logs with additional context
func WithFields(fields map[string]interface{}, message string) {
	log.WithFields(log.Fields(fields)).Info(message)
}

func createLogFolder(baseDir string) (string, error) {
	dateFolder := filepath.Join(baseDir, time.Now().Format("2006-01-02"))
	return dateFolder, os.MkdirAll(dateFolder, 0755)
}

func initializeLogRotation(dateFolder string, maxAgeDays int) (*rotatelogs.RotateLogs, error) {
	return rotatelogs.New(
		filepath.Join(dateFolder, "%Y-%m-%d-%H.log"),
		rotatelogs.WithLinkName(filepath.Join(dateFolder, "current.log")),
		rotatelogs.WithRotationTime(time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAgeDays)*24*time.Hour),
		rotatelogs.WithHandler(rotatelogs.HandlerFunc(func(e rotatelogs.Event) {
			if e.Type() != rotatelogs.FileRotatedEventType {
				return
			}
			if prev := e.(*rotatelogs.FileRotatedEvent).PreviousFile(); prev != "" {
				if err := compressLogFile(prev, prev+".gz"); err != nil {
					fmt.Println("log compression failed:", err)
				}
			}
		})),
	)
}

func deleteOldDateFoldersLoop(baseDir string, maxAgeDays int) {
	for {
		deleteOldDateFolders(baseDir, maxAgeDays)
		time.Sleep(time.Hour)
	}
}

// deleteOldDateFolders removes date folders whose modification time is past the max age.
func deleteOldDateFolders(baseDir string, maxAgeDays int) {
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(baseDir, e.Name())
			if err := os.RemoveAll(path); err != nil {
				fmt.Printf("Failed to delete directory %s: %v\n", path, err)
			}
		}
	}
}

// compressLogFile compresses a log file to gzip format and removes the source
func compressLogFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	gzf, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fi.Mode())
	if err != nil {
		return fmt.Errorf("failed to open compressed log file: %w", err)
	}
	defer gzf.Close()

	gz := gzip.NewWriter(gzf)
	if _, err := io.Copy(gz, f); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
