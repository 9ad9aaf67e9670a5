// Package output renders the reconciled blocklist to disk, one line
// per domain, in either dnsmasq directive form or hosts-file form.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/function61/gokit/os/osutil"
	"gopkg.in/yaml.v3"

	"github.com/blockgate/blockgate/internal/config"
	"github.com/blockgate/blockgate/internal/logger"
)

const defaultDestIP = "127.0.0.1"

// Write renders domains into the configured output file. The file is
// replaced atomically; with Backup set, an existing file is copied
// aside first, and with NoClobber set, an existing file aborts the
// write.
func Write(cfg *config.Config, domains []string) error {
	path := cfg.Output.File

	if path == "/dev/stdout" {
		return render(os.Stdout, cfg, domains)
	}

	exists, err := osutil.Exists(path)
	if err != nil {
		return fmt.Errorf("checking output file: %v", err)
	}
	if exists && cfg.Output.NoClobber {
		return fmt.Errorf("%s exists, refusing to overwrite (noclobber)", path)
	}
	if exists && cfg.Output.Backup {
		if err := backupFile(path); err != nil {
			return fmt.Errorf("backing up %s: %v", path, err)
		}
	}

	logger.Infof("Writing %d domains to %s in %s format", len(domains), path, cfg.Output.Mode)
	return osutil.WriteFileAtomic(path, func(w io.Writer) error {
		return render(w, cfg, domains)
	})
}

func render(w io.Writer, cfg *config.Config, domains []string) error {
	if _, err := io.WriteString(w, header(cfg)); err != nil {
		return err
	}
	for _, d := range domains {
		if _, err := io.WriteString(w, renderLine(cfg.Output, d)); err != nil {
			return err
		}
	}
	return nil
}

func renderLine(out config.OutputConfig, d string) string {
	switch out.Mode {
	case config.ModeHosts:
		ip := out.DestIP
		if ip == "" {
			ip = defaultDestIP
		}
		return ip + " " + d + "\n"
	default:
		if out.DestIP != "" {
			return "address=/." + d + "/" + out.DestIP + "\n"
		}
		// No destination address: answer NXDOMAIN.
		return "server=/." + d + "/\n"
	}
}

func header(cfg *config.Config) string {
	rule := strings.Repeat("#", 64)

	summary, err := yaml.Marshal(cfg)
	if err != nil {
		summary = []byte(fmt.Sprintf("unavailable: %v\n", err))
	}
	var commented strings.Builder
	for _, line := range strings.Split(strings.TrimRight(string(summary), "\n"), "\n") {
		commented.WriteString("#    " + line + "\n")
	}

	return rule + "\n" +
		"#\n" +
		"# AUTOMATICALLY GENERATED BY blockgate.\n" +
		"#\n" +
		"# CHANGES WILL BE LOST ON THE NEXT RUN.\n" +
		"# EDIT " + cfg.Lists.Blacklist + " or " + cfg.Lists.Whitelist + " instead.\n" +
		"#\n" +
		"# Generated by:\n" +
		"#    " + strings.Join(os.Args, " ") + "\n" +
		"#\n" +
		"# Configuration:\n" +
		commented.String() +
		"#\n" +
		rule + "\n\n"
}

// backupFile copies path to a timestamped sibling before it gets
// overwritten.
func backupFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dest := fmt.Sprintf("%s.bak.%d", path, time.Now().Unix())
	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	logger.Infof("Backing up %s to %s", path, dest)
	_, err = io.Copy(dst, src)
	return err
}
