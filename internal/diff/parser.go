// Package diff turns unified-diff text into the set of line numbers each
// changed file gained in its new revision.
package diff

import (
	"regexp"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"intentcheck/internal/types"
)

var (
	filePathRegex   = regexp.MustCompile(`^\+\+\+ b/(.*)`)
	hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)
)

// PathFilter decides whether a file path belongs to a source file worth
// analyzing. Paths rejected by the filter are excluded from the ChangeSet.
type PathFilter func(path string) bool

// ParseChangedLines scans a unified diff and returns, per file, the 1-based
// line numbers in the new revision that the diff adds. Files with no added
// lines (pure deletions, renames, binary entries) are dropped. A malformed
// hunk header drops the current file from that point on rather than
// aborting the scan.
func ParseChangedLines(diffText string, filter PathFilter) types.ChangeSet {
	changed := make(types.ChangeSet)
	if diffText == "" {
		return changed
	}

	var currentFile string
	newLine := 0

	for _, line := range strings.Split(diffText, "\n") {
		if m := filePathRegex.FindStringSubmatch(line); m != nil {
			currentFile = strings.TrimSpace(m[1])
			if filter != nil && !filter(currentFile) {
				logger.Debugf("diff: skipping unsupported file %s", currentFile)
				currentFile = ""
				continue
			}
			continue
		}

		if currentFile == "" {
			continue
		}

		if strings.HasPrefix(line, "@@") {
			m := hunkHeaderRegex.FindStringSubmatch(line)
			if m == nil {
				logger.Warnf("diff: malformed hunk header %q, dropping %s", line, currentFile)
				currentFile = ""
				continue
			}
			newLine, _ = strconv.Atoi(m[1])
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			changed.Add(currentFile, newLine)
			newLine++
		case strings.HasPrefix(line, "-"):
			// removed line, absent from the new revision
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" marker
		default:
			newLine++
		}
	}

	return changed
}
