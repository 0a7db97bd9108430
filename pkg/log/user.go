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
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints the final outcome of a run
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// ✅ Hashed reports a finished run
func (u *UserLogger) Hashed(renamed, rewritten int, dryRun bool) {
	if dryRun {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).WithWriter(u.out).
			Printfln("Dry run: would hash %d files and rewrite %d.", renamed, rewritten)
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).WithWriter(u.out).
			Printfln("Successfully hashed %d files.", renamed)
	}
	u.log.Info().Int("renamed", renamed).Int("rewritten", rewritten).Bool("dry_run", dryRun).Msg("run complete")
}

// 📦 ManifestWritten reports where the manifest went
func (u *UserLogger) ManifestWritten(path string, entries int) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).WithWriter(u.out).
		Printfln("Wrote manifest with %d entries to %s", entries, path)
	u.log.Info().Str("path", path).Int("entries", entries).Msg("manifest written")
}

// ❌ Failed reports a run that stopped on err
func (u *UserLogger) Failed(err error) {
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(u.out).Println(err.Error())
	u.log.Error().Err(err).Msg("run failed")
}
