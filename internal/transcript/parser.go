package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// DefaultMaxLineBytes bounds a single transcript line. Longer lines are
// skipped like any other malformed record.
const DefaultMaxLineBytes = 10 * 1024 * 1024

const readBufferSize = 64 * 1024

// ParseFile folds the transcript at path into a Summary. A missing file (or
// an empty path) yields an empty Summary and no error.
func ParseFile(path string, opts Options) (Summary, error) {
	if path == "" {
		return Summary{}, nil
	}

	rc, err := Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		opts.logger().Debug("transcript not found", "path", path)
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, err
	}
	defer rc.Close()

	return Parse(rc, opts)
}

// Parse folds a JSONL transcript read from r into a Summary. On a read error
// the Summary reflects every line consumed before the failure.
func Parse(r io.Reader, opts Options) (Summary, error) {
	red := NewReducer(opts)
	log := red.opts.logger()

	skipped, err := Scan(r, red.opts.MaxLineBytes, red.Apply)
	if skipped > 0 {
		log.Debug("skipped malformed transcript lines", "count", skipped)
	}
	if n := red.Dangling(); n > 0 {
		log.Debug("dropped tool results with no matching tool_use", "count", n)
	}
	return red.Finalize(), err
}

// Scan calls fn for every decodable line of r, in stream order. Blank lines
// are ignored; undecodable or overlong lines are skipped and counted.
func Scan(r io.Reader, maxLine int, fn func(Entry)) (skipped int, err error) {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}

	br := bufio.NewReaderSize(r, readBufferSize)
	var line []byte
	overlong := false

	for {
		chunk, readErr := br.ReadSlice('\n')
		if !overlong {
			if len(line)+len(chunk) > maxLine {
				overlong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if readErr == bufio.ErrBufferFull {
			continue
		}

		switch {
		case overlong:
			skipped++
		case len(bytes.TrimSpace(line)) == 0:
		default:
			if entry, ok := DecodeLine(line); ok {
				fn(entry)
			} else {
				skipped++
			}
		}
		line = line[:0]
		overlong = false

		if readErr == io.EOF {
			return skipped, nil
		}
		if readErr != nil {
			return skipped, fmt.Errorf("read transcript: %w", readErr)
		}
	}
}

// DecodeLine decodes one transcript line. ok is false when the line is blank
// or is not a JSON object. Fields of the wrong shape are treated as absent
// rather than failing the whole line.
func DecodeLine(line []byte) (Entry, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Entry{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Entry{}, false
	}

	return Entry{
		Type:      stringField(fields, "type"),
		Timestamp: parseTimestamp(fields["timestamp"]),
		Blocks:    ContentBlocks(fields["message"]),
	}, true
}

// ContentBlocks extracts the typed blocks of a raw message object. String
// content and non-object blocks yield nothing.
func ContentBlocks(message json.RawMessage) []ContentBlock {
	if len(message) == 0 {
		return nil
	}

	var msg struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(message, &msg); err != nil || len(msg.Content) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(msg.Content, &items); err != nil {
		return nil
	}

	blocks := make([]ContentBlock, 0, len(items))
	for _, item := range items {
		if b, ok := decodeBlock(item); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func decodeBlock(item json.RawMessage) (ContentBlock, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return ContentBlock{}, false
	}

	b := ContentBlock{Type: stringField(fields, "type")}
	switch b.Type {
	case BlockToolUse:
		b.ID = stringField(fields, "id")
		b.Name = stringField(fields, "name")
		if raw, ok := fields["input"]; ok {
			var input map[string]any
			if err := json.Unmarshal(raw, &input); err == nil {
				b.Input = input
			}
		}
	case BlockToolResult:
		b.ToolUseID = stringField(fields, "tool_use_id")
		if raw, ok := fields["is_error"]; ok {
			_ = json.Unmarshal(raw, &b.IsError)
		}
	}
	return b, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// localLayouts are accepted timestamp forms without a zone offset. They are
// read as local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts RFC 3339 strings (what Claude Code writes), zoneless
// date-times in local time and epoch milliseconds. Anything else is treated
// as no timestamp.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t
			}
		}
		return time.Time{}
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(int64(ms))
	}
	return time.Time{}
}
