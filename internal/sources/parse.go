package sources

import (
	"os"
	"strings"

	"github.com/blockgate/blockgate/internal/logger"
)

// ParseHosts extracts domain names from hosts-file formatted content
// ("0.0.0.0 ads.example.com" style). Comments, blank lines, and lines
// without an address column are skipped.
func ParseHosts(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = stripComment(line)
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if d := trimEmptyLabels(fields[1]); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ParsePlain extracts domain names from a plain comment-annotated list,
// one domain per line.
func ParsePlain(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(stripComment(line))
		if line == "" {
			continue
		}
		if d := trimEmptyLabels(line); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ReadListFile reads a plain-format local list. A missing file is
// treated as an empty list, not an error.
func ReadListFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("Could not find %s, assuming an empty list", path)
			return nil, nil
		}
		return nil, err
	}
	return ParsePlain(string(data)), nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return line
}

// trimEmptyLabels drops leading, trailing, and doubled dots.
func trimEmptyLabels(d string) string {
	labels := strings.Split(d, ".")
	kept := labels[:0]
	for _, label := range labels {
		if label != "" {
			kept = append(kept, label)
		}
	}
	return strings.Join(kept, ".")
}
