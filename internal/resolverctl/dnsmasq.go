// Package resolverctl restarts the downstream resolver so it picks up
// a freshly generated blocklist.
package resolverctl

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/blockgate/blockgate/internal/logger"
)

const initScript = "/etc/init.d/dnsmasq"

// RestartDNSMasq restarts the dnsmasq service, via its init script
// where one exists and via systemctl otherwise.
func RestartDNSMasq(ctx context.Context) error {
	if _, err := os.Lstat(initScript); err == nil {
		return run(ctx, initScript, "restart")
	}
	return run(ctx, "systemctl", "restart", "dnsmasq")
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v: %s", err, output)
	}
	logger.Successf("Restarted dnsmasq via %s", name)
	return nil
}
