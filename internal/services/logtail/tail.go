// Package logtail reads the trailing portion of a growing log file.
package logtail

import (
	"io"
	"os"
	"strings"
)

const DefaultMaxBytes int64 = 200_000

// Lines returns the most recent lines of the file at path, oldest first,
// considering at most maxBytes trailing bytes. A missing or unreadable file
// yields nil: the caller degrades to a cold-start state instead of failing
// the request. Invalid UTF-8 (including a partial rune cut by the seek) is
// dropped. The file may still be written while we read; the last line is not
// guaranteed complete.
func Lines(path string, maxBytes int64) []string {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil
	}
	offset := size - maxBytes
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
