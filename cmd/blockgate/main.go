// blockgate combines, deduplicates, and minimizes DNS blocklists from
// remote sources, a local blacklist, and a whitelist, and writes the
// result as a dnsmasq configuration fragment or a hosts file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blockgate/blockgate/internal/config"
	"github.com/blockgate/blockgate/internal/domain"
	"github.com/blockgate/blockgate/internal/engine"
	"github.com/blockgate/blockgate/internal/logger"
	"github.com/blockgate/blockgate/internal/output"
	"github.com/blockgate/blockgate/internal/resolverctl"
	"github.com/blockgate/blockgate/internal/sources"
)

// stringList collects the value of a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint(*s)
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath      = flag.String("config", "", "path to a YAML config file")
		mode            = flag.String("mode", "", "output mode: dnsmasq or hosts")
		blockAtRoot     = flag.Bool("block-at-root", false, "strip entries to their registrable root, e.g. analytics.google.com -> google.com")
		outputFile      = flag.String("output", "", "output file")
		destIP          = flag.String("dest-ip", "", "IP to redirect blocked connections to")
		backup          = flag.Bool("backup", false, "back up the output file before overwriting")
		noClobber       = flag.Bool("noclobber", false, "do not overwrite an existing output file")
		noCache         = flag.Bool("no-cache", false, "do not cache remote sources on disk")
		cacheExpire     = flag.Duration("cache-expire", 0, "how long a cached remote source stays fresh")
		restartDNSMasq  = flag.Bool("restart-dnsmasq", true, "restart the dnsmasq service after writing (ignored in hosts mode)")
		showConfig      = flag.Bool("show-config", false, "print the effective configuration to stderr")
		installHelp     = flag.Bool("install-help", false, "show commands to configure dnsmasq or /etc/hosts and exit")
		verbose         = flag.Bool("verbose", false, "print more information to stderr")
		debug           = flag.Bool("debug", false, "print debugging information to stderr")
		sourceURLs      stringList
		blacklistAppend stringList
		whitelistAppend stringList
	)
	flag.Var(&sourceURLs, "source", "blacklist URL to pull rules from (repeatable, overrides configured sources)")
	flag.Var(&blacklistAppend, "blacklist-append", "add a domain to the local blacklist (repeatable)")
	flag.Var(&whitelistAppend, "whitelist-append", "add a domain to the local whitelist (repeatable)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override whatever the config file said.
	if *mode != "" {
		cfg.Output.Mode = config.Mode(*mode)
	}
	if *blockAtRoot {
		cfg.StripToRoot = true
	}
	if *outputFile != "" {
		cfg.Output.File = *outputFile
	}
	if *destIP != "" {
		cfg.Output.DestIP = *destIP
	}
	if *backup {
		cfg.Output.Backup = true
	}
	if *noClobber {
		cfg.Output.NoClobber = true
	}
	if *noCache {
		cfg.Cache.Disable = true
	}
	if *cacheExpire > 0 {
		cfg.Cache.Expire = *cacheExpire
	}
	if len(sourceURLs) > 0 {
		cfg.Lists.Sources = sourceURLs
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "restart-dnsmasq" {
			cfg.RestartService = *restartDNSMasq
		}
	})

	switch {
	case *debug:
		cfg.Logging.Level = "debug"
	case *verbose:
		cfg.Logging.Level = "info"
	}
	logger.SetLevel(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if *showConfig {
		dump, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s", dump)
	}

	if *installHelp {
		printInstallHelp(cfg)
		return nil
	}

	if len(whitelistAppend) > 0 {
		if err := sources.AppendToList(cfg.Lists.Whitelist, whitelistAppend); err != nil {
			return err
		}
	}
	if len(blacklistAppend) > 0 {
		if err := sources.AppendToList(cfg.Lists.Blacklist, blacklistAppend); err != nil {
			return err
		}
	}

	ctx := context.Background()

	logger.Infof("Reading whitelist %s", cfg.Lists.Whitelist)
	whiteRaw, err := sources.ReadListFile(cfg.Lists.Whitelist)
	if err != nil {
		return fmt.Errorf("reading whitelist: %v", err)
	}
	white := domain.NormalizeSet(engine.Collect(whiteRaw))
	logger.Infof("%d validated whitelist domains", white.Len())

	logger.Infof("Reading local blacklist %s", cfg.Lists.Blacklist)
	localRaw, err := sources.ReadListFile(cfg.Lists.Blacklist)
	if err != nil {
		return fmt.Errorf("reading local blacklist: %v", err)
	}
	local := domain.NormalizeSet(engine.Collect(localRaw))
	logger.Infof("%d validated local blacklist domains", local.Len())

	logger.Infof("Fetching %d remote blacklists", len(cfg.Lists.Sources))
	fetcher := sources.NewFetcher(cfg.Cache)
	remote := domain.NormalizeSet(engine.Collect(fetcher.FetchAll(ctx, cfg.Lists.Sources)...))
	logger.Infof("%d validated remote blacklist domains", remote.Len())

	result, err := engine.Reconcile(
		engine.Inputs{Remote: remote, Local: local, White: white},
		domain.NewPSL(),
		engine.Options{StripToRoot: cfg.StripToRoot, Mode: cfg.Output.Mode},
	)
	if err != nil {
		return err
	}
	logger.Infof("Final blacklisted domain count: %d", len(result.Domains))

	if err := output.Write(cfg, result.Domains); err != nil {
		return err
	}
	logger.Successf("Wrote %s", cfg.Output.File)

	if cfg.RestartService && cfg.Output.Mode == config.ModeDNSMasq {
		if err := resolverctl.RestartDNSMasq(ctx); err != nil {
			return fmt.Errorf("restarting dnsmasq: %v", err)
		}
	}
	return nil
}

func printInstallHelp(cfg *config.Config) {
	switch cfg.Output.Mode {
	case config.ModeHosts:
		fmt.Fprintln(os.Stderr, "    $ mv -vi /etc/hosts /etc/hosts.default")
		fmt.Fprintf(os.Stderr, "    $ cat /etc/hosts.default %s > /etc/hosts\n", cfg.Output.File)
	default:
		confLine := fmt.Sprintf("\"conf-file=%s\"", cfg.Output.File)
		fmt.Fprintf(os.Stderr, "    $ cp -vi /etc/dnsmasq.conf /etc/dnsmasq.conf.bak.%d\n", time.Now().Unix())
		fmt.Fprintf(os.Stderr, "    $ grep %s /etc/dnsmasq.conf || { echo %s >> /etc/dnsmasq.conf ; }\n", confLine, confLine)
		fmt.Fprintln(os.Stderr, "    $ /etc/init.d/dnsmasq restart")
	}
}
