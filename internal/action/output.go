package action

import (
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const heredocDelimiter = "EOF"

// OutputWriter appends workflow outputs to the file GitHub Actions points
// at via GITHUB_OUTPUT.
type OutputWriter struct {
	path string
}

func NewOutputWriter() *OutputWriter {
	return &OutputWriter{path: os.Getenv("GITHUB_OUTPUT")}
}

func NewOutputWriterAt(path string) *OutputWriter {
	return &OutputWriter{path: path}
}

// Set records one named output. Multiline values use the heredoc form the
// runner expects.
func (w *OutputWriter) Set(name, value string) error {
	if w.path == "" {
		logger.Warnf("action: GITHUB_OUTPUT not set, dropping output %s", name)
		return nil
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	var entry string
	if strings.Contains(value, "\n") {
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, heredocDelimiter, value, heredocDelimiter)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}
