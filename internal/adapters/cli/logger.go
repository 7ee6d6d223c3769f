package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/craftplan/craftplan-go/internal/infrastructure/config"
)

var levelRank = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// stdLogger implements the application logger port over a plain writer,
// honoring the configured level, format and output destination
type stdLogger struct {
	out      io.Writer
	minLevel int
	format   string
}

// newLogger builds a logger from the logging config. The --verbose flag
// lowers the threshold to debug regardless of configuration.
func newLogger(cfg config.LoggingConfig, verbose bool) *stdLogger {
	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	minLevel, ok := levelRank[cfg.Level]
	if !ok {
		minLevel = levelRank["info"]
	}
	if verbose {
		minLevel = levelRank["debug"]
	}

	return &stdLogger{
		out:      out,
		minLevel: minLevel,
		format:   cfg.Format,
	}
}

func (l *stdLogger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank["info"]
	}
	if rank < l.minLevel {
		return
	}

	if l.format == "json" {
		record := map[string]interface{}{
			"time":    time.Now().Format(time.RFC3339),
			"level":   level,
			"message": message,
		}
		for key, value := range metadata {
			record[key] = value
		}
		line, err := json.Marshal(record)
		if err != nil {
			fmt.Fprintf(l.out, "{\"level\":\"error\",\"message\":\"failed to marshal log record: %v\"}\n", err)
			return
		}
		fmt.Fprintln(l.out, string(line))
		return
	}

	var builder strings.Builder
	builder.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	builder.WriteString(" [")
	builder.WriteString(strings.ToUpper(level))
	builder.WriteString("] ")
	builder.WriteString(message)

	// Stable field order keeps text logs diffable
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		builder.WriteString(fmt.Sprintf(" %s=%v", key, metadata[key]))
	}

	fmt.Fprintln(l.out, builder.String())
}
