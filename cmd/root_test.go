package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantErr   bool
	}{
		{"defaults", "", "", logrus.InfoLevel, false},
		{"debug json", "debug", "json", logrus.DebugLevel, false},
		{"upper case format", "warn", "TEXT", logrus.WarnLevel, false},
		{"bad level", "loud", "text", logrus.InfoLevel, true},
		{"bad format", "info", "xml", logrus.InfoLevel, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logrus.SetLevel(logrus.InfoLevel)
			err := setupLogging(tc.level, tc.format)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if logrus.GetLevel() != tc.wantLevel {
				t.Errorf("expected level %v, got %v", tc.wantLevel, logrus.GetLevel())
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(out.String(), "avatar-faces dev\n") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "generate": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
