package main

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	exitOK           = 0
	exitLookupFailed = 2
)

// watcher drives one watch cycle: resolve every host, compare against the
// persisted snapshot and record whatever changed.
type watcher struct {
	resolver    Resolver
	statePath   string
	changes     *changeLog
	retries     int
	timeout     time.Duration
	metricsPath string
}

type runStats struct {
	hosts    int
	failed   int
	changed  int
	duration time.Duration
}

// Run processes all hosts in order and returns the process exit code:
// exitOK when every host resolved, exitLookupFailed when at least one host
// exhausted its retries. A failure to persist state, append to the change
// log or write the metrics snapshot is returned as an error instead.
func (w *watcher) Run(ctx context.Context, hosts []string) (int, error) {
	started := time.Now()
	state := loadState(w.statePath)

	code := exitOK
	stats := runStats{hosts: len(hosts)}

	for _, raw := range hosts {
		host := normalizeHost(raw)

		ips, err := resolveAll(ctx, w.resolver, host, w.timeout, w.retries)
		if err != nil {
			log.Errorf("could not resolve %s: %v", host, err)
			if err := w.changes.logLookupFailed(host, err); err != nil {
				return code, err
			}
			stats.failed++
			code = exitLookupFailed
			continue
		}

		before := state[host]
		if !ipSetChanged(before, ips) {
			log.Debugf("no change for %s (%d addresses)", host, len(ips))
			continue
		}

		log.Infof("addresses for %s changed: %v -> %v", host, before, ips)
		if err := w.changes.logIPChanged(host, before, ips); err != nil {
			return code, err
		}
		state[host] = ips
		stats.changed++
	}

	if stats.changed > 0 {
		if err := saveState(w.statePath, state); err != nil {
			return code, err
		}
	}

	stats.duration = time.Since(started)
	if w.metricsPath != "" {
		if err := writeMetrics(w.metricsPath, stats); err != nil {
			return code, err
		}
	}

	return code, nil
}

// ipSetChanged compares the previously stored list against a freshly
// resolved one. The stored list is sorted before comparing so snapshots
// written by older versions still compare correctly.
func ipSetChanged(before, after []string) bool {
	prev := append([]string(nil), before...)
	sort.Strings(prev)

	if len(prev) != len(after) {
		return true
	}
	for i := range prev {
		if prev[i] != after[i] {
			return true
		}
	}

	return false
}
