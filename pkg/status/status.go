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

package status

import (
	"context"

	"github.com/rs/zerolog"
)

// 📊 FileStatus is the outcome of one pipeline stage for one file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusRenamed              // File got a digest segment
	StatusRewritten            // References inside the file were rewritten
	StatusUnchanged            // Text file scanned, nothing to rewrite
	StatusSkipped              // Excluded by skip list or include globs
	StatusBinary               // Not valid UTF-8, left untouched
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusRewritten:
		return "rewritten"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// 📄 FileInfo records what happened to a file
type FileInfo struct {
	Path   string     // Root-relative path
	Status FileStatus // Outcome
	Detail string     // New name for renames, free text otherwise
}

// 📈 Reporter receives per-file outcomes and progress
type Reporter interface {
	Track(ctx context.Context, info FileInfo)
	StartOperation(ctx context.Context, name string, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Tracker is the default Reporter. It keeps every outcome in order and
// logs through the context logger.
type Tracker struct {
	formatter FileFormatter

	files  []FileInfo
	counts map[FileStatus]int

	operation string
	total     int
	processed int
}

var _ Reporter = (*Tracker)(nil)

// 🏭 NewTracker creates a tracker. A nil formatter uses the default one.
func NewTracker(formatter FileFormatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Tracker{
		formatter: formatter,
		counts:    make(map[FileStatus]int),
	}
}

func (t *Tracker) Track(ctx context.Context, info FileInfo) {
	t.files = append(t.files, info)
	t.counts[info.Status]++

	zerolog.Ctx(ctx).Debug().
		Str("file", info.Path).
		Str("status", info.Status.String()).
		Str("detail", info.Detail).
		Msg(t.formatter.FormatFileOperation(info))
}

// Count returns how many files ended in status
func (t *Tracker) Count(status FileStatus) int {
	return t.counts[status]
}

// Files returns the tracked outcomes in the order they were recorded
func (t *Tracker) Files() []FileInfo {
	out := make([]FileInfo, len(t.files))
	copy(out, t.files)
	return out
}

func (t *Tracker) StartOperation(ctx context.Context, name string, total int) {
	t.operation = name
	t.total = total
	t.processed = 0
	zerolog.Ctx(ctx).Info().
		Str("operation", name).
		Int("total", total).
		Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.processed = processed
	zerolog.Ctx(ctx).Trace().
		Str("operation", t.operation).
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	zerolog.Ctx(ctx).Info().
		Str("operation", t.operation).
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.total, t.total))
}

// 🤫 Discard is a Reporter that drops everything
type Discard struct{}

func (Discard) Track(context.Context, FileInfo) {}
func (Discard) StartOperation(context.Context, string, int) {}
func (Discard) UpdateProgress(context.Context, int) {}
func (Discard) FinishOperation(context.Context) {}

// 🔀 Multi fans every event out to each non-nil reporter in order
func Multi(reporters ...Reporter) Reporter {
	out := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multi []Reporter

func (m multi) Track(ctx context.Context, info FileInfo) {
	for _, r := range m {
		r.Track(ctx, info)
	}
}

func (m multi) StartOperation(ctx context.Context, name string, total int) {
	for _, r := range m {
		r.StartOperation(ctx, name, total)
	}
}

func (m multi) UpdateProgress(ctx context.Context, processed int) {
	for _, r := range m {
		r.UpdateProgress(ctx, processed)
	}
}

func (m multi) FinishOperation(ctx context.Context) {
	for _, r := range m {
		r.FinishOperation(ctx)
	}
}
