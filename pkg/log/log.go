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

// Package log renders run progress for people: a colored per-file console
// view backed by zerolog, and a pterm summary banner.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/cachebust/pkg/status"
)

// 📝 Logger writes human-readable lines to a console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	verbose bool
}

// 🏭 New creates a logger printing to console. Messages at or above level
// are mirrored to zerolog on the same writer. Verbose loggers also print
// one line per file.
func New(console io.Writer, level zerolog.Level, verbose bool) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: console}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		verbose: verbose,
	}
}

type contextKey struct{}

// 🔍 FromContext returns the logger stored in ctx, or a silent one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return &Logger{zlog: zerolog.Nop(), console: io.Discard}
	}
	return logger
}

// 📦 NewContext stores l in ctx
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, format, args...)
}

// 🎯 Header prints the banner for a run
func (l *Logger) Header(msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("cachebust")
	l.printf("\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) {
	l.printf("✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.printf("⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.printf("❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.printf("ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

func (l *Logger) LogNewline() {
	l.printf("\n")
}

// 📊 Reporter shows file outcomes on the console when the logger is verbose
func (l *Logger) Reporter() status.Reporter {
	return &consoleReporter{logger: l}
}

type consoleReporter struct {
	logger *Logger
}

func (r *consoleReporter) Track(ctx context.Context, info status.FileInfo) {
	if r.logger.verbose {
		r.logger.printf("%s\n", status.FormatFileOperation(info))
	}
}

func (r *consoleReporter) StartOperation(ctx context.Context, name string, total int) {
	if r.logger.verbose {
		r.logger.printf("%s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(name),
			color.New(color.Faint).Sprintf("• %d files", total))
	}
}

func (r *consoleReporter) UpdateProgress(ctx context.Context, processed int) {}

func (r *consoleReporter) FinishOperation(ctx context.Context) {}
