// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %d", 3)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success 3",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("hashing build/web")
			},
			wantLogs: []string{
				"cachebust • hashing build/web",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled, false)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled, false)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	// a missing logger falls back to a silent one
	silent := FromContext(context.Background())
	require.NotNil(t, silent)
	silent.Info("nobody hears this")
}

func TestReporter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		verbose bool
		want    []string
	}{
		{
			name:    "verbose_prints_files",
			verbose: true,
			want: []string{
				"◆ rename • 2 files",
				"✓ a.js",
				"- logo.png",
			},
		},
		{
			name:    "quiet_prints_nothing",
			verbose: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tracker := status.NewTracker(nil)
			r := status.Multi(tracker, New(buf, zerolog.Disabled, tt.verbose).Reporter())

			ctx := context.Background()
			r.StartOperation(ctx, "rename", 2)
			r.Track(ctx, status.FileInfo{Path: "a.js", Status: status.StatusRenamed, Detail: "a.11111111.js"})
			r.UpdateProgress(ctx, 1)
			r.Track(ctx, status.FileInfo{Path: "logo.png", Status: status.StatusBinary})
			r.UpdateProgress(ctx, 2)
			r.FinishOperation(ctx)

			assert.Equal(t, 1, tracker.Count(status.StatusRenamed), "outcomes still reach the tracker")
			assert.Equal(t, 1, tracker.Count(status.StatusBinary))

			if len(tt.want) == 0 {
				assert.Empty(t, buf.String())
				return
			}
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.want))
			for i, want := range tt.want {
				assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[i]), want), "line %d: %q", i, lines[i])
			}
		})
	}
}

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	tests := []struct {
		name string
		op   func(u *UserLogger)
		want string
	}{
		{
			name: "hashed",
			op:   func(u *UserLogger) { u.Hashed(12, 3, false) },
			want: "Successfully hashed 12 files.",
		},
		{
			name: "dry_run",
			op:   func(u *UserLogger) { u.Hashed(12, 3, true) },
			want: "Dry run: would hash 12 files and rewrite 3.",
		},
		{
			name: "manifest",
			op:   func(u *UserLogger) { u.ManifestWritten("out/manifest.json", 12) },
			want: "Wrote manifest with 12 entries to out/manifest.json",
		},
		{
			name: "failed",
			op:   func(u *UserLogger) { u.Failed(errors.New("renaming a.js: boom")) },
			want: "renaming a.js: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.op(NewUserLogger(ctx, buf))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
