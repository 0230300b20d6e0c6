package adapters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobportal-web/internal/logging/types"
)

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
	ansiReset  = "\033[0m"
)

// formatEntry renders an entry as a single line in the requested format.
// Unknown formats fall back to json.
func formatEntry(entry *types.LogEntry, format string, colorized bool) (string, error) {
	if strings.EqualFold(format, "text") {
		return formatText(entry, colorized), nil
	}
	return formatJSON(entry)
}

func formatJSON(entry *types.LogEntry) (string, error) {
	logData := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		logData[k] = v
	}
	logData["level"] = entry.Level.String()
	logData["message"] = entry.Message
	logData["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(logData)
	if err != nil {
		return "", fmt.Errorf("failed to format log entry: %w", err)
	}
	return string(data), nil
}

func formatText(entry *types.LogEntry, colorized bool) string {
	timestamp := entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	level := strings.ToUpper(entry.Level.String())
	if colorized {
		level = colorizeLevel(level)
	}

	output := fmt.Sprintf("%s [%s] %s", timestamp, level, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		output += " " + strings.Join(pairs, " ")
	}

	return output
}

func colorizeLevel(level string) string {
	switch level {
	case "DEBUG":
		return ansiGray + level + ansiReset
	case "INFO":
		return ansiBlue + level + ansiReset
	case "WARN":
		return ansiYellow + level + ansiReset
	case "ERROR", "FATAL":
		return ansiRed + level + ansiReset
	default:
		return level
	}
}
