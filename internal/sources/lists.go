package sources

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/blockgate/blockgate/internal/domain"
	"github.com/blockgate/blockgate/internal/logger"
)

// AppendToList normalizes the given domains and appends each to the
// list file at path, skipping domains the file already contains.
func AppendToList(path string, domains []string) error {
	for _, raw := range domains {
		d, err := domain.Normalize(raw)
		if err != nil {
			return errors.Wrapf(err, "cannot append %q to %s", raw, path)
		}
		logger.Infof("Appending %s to %s", d, path)
		if err := AppendUniqueLine(path, d); err != nil {
			return errors.Wrapf(err, "appending to %s", path)
		}
	}
	return nil
}

// AppendUniqueLine appends line to the file at path unless an identical
// line is already present. The file is created if missing.
func AppendUniqueLine(path, line string) error {
	line = strings.TrimSuffix(line, "\n")

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, existing := range strings.Split(string(data), "\n") {
		if existing == line {
			return nil
		}
	}

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = fh.WriteString(line + "\n")
	return err
}
