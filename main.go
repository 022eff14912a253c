package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ipwatch/config"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/sirupsen/logrus"
)

const version string = "0.2.1"

var (
	showVersion   = kingpin.Flag("version", "Print version information").Bool()
	stateDir      = kingpin.Flag("state-dir", "Directory containing the last-seen IP state file").Default(".state").String()
	logFile       = kingpin.Flag("log-file", "Path to the append-only change log").Default("ip_changes.log").String()
	retryCount    = kingpin.Flag("retries", "Additional resolution attempts after a failed lookup").Default("2").Int()
	lookupTimeout = kingpin.Flag("timeout", "Timeout for a single lookup attempt").Default("3s").Duration()
	dnsNameServer = kingpin.Flag("dns.nameserver", "DNS server used to resolve hostnames (system resolver if empty)").Default("").String()
	configFile    = kingpin.Flag("config.path", "Path to config file").Default("").String()
	metricsFile   = kingpin.Flag("metrics.file", "Path for a Prometheus textfile collector snapshot (disabled if empty)").Default("").String()
	logLevel      = kingpin.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error, fatal]").Default("info").String()
	hostArgs      = kingpin.Arg("hosts", "Hostnames or URLs to watch").Strings()
)

func main() {
	kingpin.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	setLogLevel(*logLevel)

	cfg, err := loadConfig()
	if err != nil {
		kingpin.FatalUsage("could not load config.path: %v", err)
	}

	if len(cfg.Targets) == 0 {
		kingpin.FatalUsage("at least one hostname or URL must be given")
	}

	if cfg.Watch.Retries < 0 {
		kingpin.FatalUsage("retries must not be negative")
	}

	w := &watcher{
		resolver:    setupResolver(cfg),
		statePath:   filepath.Join(cfg.Watch.StateDir, stateFileName),
		changes:     &changeLog{path: cfg.Watch.LogFile},
		retries:     cfg.Watch.Retries,
		timeout:     cfg.Watch.Timeout.Duration(),
		metricsPath: cfg.Watch.MetricsFile,
	}

	code, err := w.Run(context.Background(), cfg.Targets)
	if err != nil {
		log.Fatalln(err)
	}

	os.Exit(code)
}

func printVersion() {
	fmt.Println("ipwatch")
	fmt.Printf("Version: %s\n", version)
	fmt.Println("Logs changes to the DNS answers of a set of hosts")
}

func loadConfig() (*config.Config, error) {
	if *configFile == "" {
		cfg := &config.Config{}
		addFlagToConfig(cfg)

		return cfg, nil
	}

	f, err := os.Open(*configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load config file: %w", err)
	}
	defer f.Close()

	cfg, err := config.FromYAML(f)
	if err == nil {
		addFlagToConfig(cfg)
	}

	return cfg, err
}

// addFlagToConfig updates cfg with command line flag values, unless the
// config has non-zero values. Hosts given on the command line are watched
// in addition to the config file targets.
func addFlagToConfig(cfg *config.Config) {
	cfg.Targets = append(cfg.Targets, *hostArgs...)
	if cfg.Watch.StateDir == "" {
		cfg.Watch.StateDir = *stateDir
	}
	if cfg.Watch.LogFile == "" {
		cfg.Watch.LogFile = *logFile
	}
	if cfg.Watch.Retries == 0 {
		cfg.Watch.Retries = *retryCount
	}
	if cfg.Watch.Timeout == 0 {
		cfg.Watch.Timeout.Set(*lookupTimeout)
	}
	if cfg.Watch.MetricsFile == "" {
		cfg.Watch.MetricsFile = *metricsFile
	}
	if cfg.DNS.Nameserver == "" {
		cfg.DNS.Nameserver = *dnsNameServer
	}
}
