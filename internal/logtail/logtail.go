package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log line.
type Entry struct {
	Time      time.Time
	Level     zerolog.Level
	Component string
	Message   string
	Error     string
	Fields    map[string]any
	Raw       string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON come back with
// only Raw and Message set, at NoLevel.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Level: zerolog.NoLevel}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		entry.Message = line
		return entry
	}

	if v, ok := fields[zerolog.TimestampFieldName].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			entry.Time = t
		}
	}
	if v, ok := fields[zerolog.LevelFieldName].(string); ok {
		if level, err := zerolog.ParseLevel(v); err == nil {
			entry.Level = level
		}
	}
	entry.Component, _ = fields["component"].(string)
	entry.Message, _ = fields[zerolog.MessageFieldName].(string)
	entry.Error, _ = fields[zerolog.ErrorFieldName].(string)

	for _, key := range []string{
		zerolog.TimestampFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
		zerolog.ErrorFieldName,
		"component",
	} {
		delete(fields, key)
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	return entry
}

// Format renders an entry as a single plain-text line:
//
//	15:04:05 INF [poller] poll failed error="..." attempt=2
func Format(e Entry) string {
	if e.Level == zerolog.NoLevel && e.Time.IsZero() {
		return e.Message
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(LevelLabel(e.Level))
	if e.Component != "" {
		b.WriteString(" [")
		b.WriteString(e.Component)
		b.WriteByte(']')
	}
	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// LevelLabel returns the three-letter label for a level.
func LevelLabel(level zerolog.Level) string {
	switch level {
	case zerolog.TraceLevel:
		return "TRC"
	case zerolog.DebugLevel:
		return "DBG"
	case zerolog.InfoLevel:
		return "INF"
	case zerolog.WarnLevel:
		return "WRN"
	case zerolog.ErrorLevel:
		return "ERR"
	case zerolog.FatalLevel:
		return "FTL"
	case zerolog.PanicLevel:
		return "PNC"
	default:
		return "---"
	}
}

// Tail reads the last maxLines lines of path and decodes them.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}
