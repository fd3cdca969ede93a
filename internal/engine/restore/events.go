package restore

import (
	"regexp"
	"strings"
)

// EventKind tags the restore log events the tracker understands.
type EventKind int

const (
	// EventBeginRepo announces work starting on a git repo, keyed by URL.
	EventBeginRepo EventKind = iota
	// EventBeginName announces a registry install, keyed by short name.
	EventBeginName
	// EventSkip reports an item already present, done without installing.
	EventSkip
	// EventFail reports a single failed item.
	EventFail
	// EventBulkFail carries a comma-separated list of failed keys.
	EventBulkFail
	// EventAllDone marks the whole restore finished.
	EventAllDone
)

// Event is one recognized restore log line.
type Event struct {
	Kind EventKind
	Key  string
	Keys []string
}

var (
	cloneRe    = regexp.MustCompile(`(?i)\[restore\]\s+cloning\s+(.+)`)
	cnrRe      = regexp.MustCompile(`(?i)\[restore\]\s+cnr install\s+([A-Za-z0-9._-]+)`)
	skipRe     = regexp.MustCompile(`(?i)\[restore\]\s+([A-Za-z0-9._-]+)\s+already present`)
	errRe      = regexp.MustCompile(`(?i)\[restore]\[err[^\]]*\]\s*([^\s]+)`)
	failListRe = regexp.MustCompile(`(?i)\[restore]\[warn].*failed:\s*\[(.+)\]`)
	doneRe     = regexp.MustCompile(`(?i)\[restore\]\s+nodes\s+&\s+settings\s+done`)
)

// Classify maps a log line to a restore event. The table is ordered; the
// first matching pattern wins. The boolean reports whether the line is a
// restore event at all.
func Classify(line string) (Event, bool) {
	if m := cloneRe.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventBeginRepo, Key: m[1]}, true
	}
	if m := cnrRe.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventBeginName, Key: m[1]}, true
	}
	if m := skipRe.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventSkip, Key: strings.TrimSpace(m[1])}, true
	}
	if m := errRe.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventFail, Key: strings.TrimSpace(m[1])}, true
	}
	if m := failListRe.FindStringSubmatch(line); m != nil {
		parts := strings.Split(m[1], ",")
		keys := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				keys = append(keys, p)
			}
		}
		return Event{Kind: EventBulkFail, Keys: keys}, true
	}
	if doneRe.MatchString(line) {
		return Event{Kind: EventAllDone}, true
	}
	return Event{}, false
}
