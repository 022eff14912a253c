package main

import log "github.com/sirupsen/logrus"

// setLogLevel adjusts diagnostic verbosity. Unknown level names fall back
// to info instead of failing the run.
func setLogLevel(l string) {
	level, err := log.ParseLevel(l)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
