package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// changeLog is the append-only record of observed events. Every append
// opens, writes and closes the file on its own; overlapping runs may
// interleave lines but never corrupt them.
type changeLog struct {
	path string
}

type lookupFailedEvent struct {
	TS    string `json:"ts"`
	Level string `json:"level"`
	Event string `json:"event"`
	Host  string `json:"host"`
	Error string `json:"error"`
}

type ipChangedEvent struct {
	TS     string   `json:"ts"`
	Level  string   `json:"level"`
	Event  string   `json:"event"`
	Host   string   `json:"host"`
	Before []string `json:"before"`
	After  []string `json:"after"`
}

func (c *changeLog) logLookupFailed(host string, lookupErr error) error {
	return c.append(lookupFailedEvent{
		TS:    isoNow(),
		Level: "error",
		Event: "dns_lookup_failed",
		Host:  host,
		Error: lookupErr.Error(),
	})
}

func (c *changeLog) logIPChanged(host string, before, after []string) error {
	// empty lists serialize as [], not null
	if before == nil {
		before = []string{}
	}
	if after == nil {
		after = []string{}
	}

	return c.append(ipChangedEvent{
		TS:     isoNow(),
		Level:  "info",
		Event:  "ip_changed",
		Host:   host,
		Before: before,
		After:  after,
	})
}

func (c *changeLog) append(event interface{}) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// isoNow returns the current time the way log consumers expect it:
// RFC 3339 UTC with whole seconds.
func isoNow() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
