package main

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func Test_setLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	tests := []struct {
		name  string
		level string
		want  log.Level
	}{
		{
			"debug",
			"debug",
			log.DebugLevel,
		},
		{
			"warn",
			"warn",
			log.WarnLevel,
		},
		{
			"fatal",
			"fatal",
			log.FatalLevel,
		},
		{
			"unknown falls back to info",
			"noisy",
			log.InfoLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLogLevel(tt.level)
			if got := log.GetLevel(); got != tt.want {
				t.Errorf("setLogLevel(%q) set %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
