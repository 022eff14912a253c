package main

import (
	"bytes"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const metricPrefix = "ipwatch_"

// writeMetrics renders a snapshot of the finished run in the text exposition
// format so a node_exporter textfile collector can pick it up. The file is
// replaced atomically, the same way the state file is.
func writeMetrics(path string, stats runStats) error {
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricPrefix + "last_run_timestamp_seconds",
		Help: "Unix timestamp of the last completed run",
	})
	hosts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricPrefix + "hosts",
		Help: "Number of hosts processed in the last run",
	})
	failed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricPrefix + "hosts_failed",
		Help: "Number of hosts whose resolution failed in the last run",
	})
	changed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricPrefix + "hosts_changed",
		Help: "Number of hosts whose address set changed in the last run",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricPrefix + "run_duration_seconds",
		Help: "Duration of the last run",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(lastRun, hosts, failed, changed, duration)

	lastRun.SetToCurrentTime()
	hosts.Set(float64(stats.hosts))
	failed.Set(float64(stats.failed))
	changed.Set(float64(stats.changed))
	duration.Set(stats.duration.Seconds())

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
