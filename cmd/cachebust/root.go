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

package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/cachebust/pkg/config"
	"github.com/walteh/cachebust/pkg/log"
	"github.com/walteh/cachebust/pkg/manifest"
	"github.com/walteh/cachebust/pkg/operation"
	"github.com/walteh/cachebust/pkg/text"
)

// rootOpts holds the values of every root flag
type rootOpts struct {
	configFile   string
	debug        bool
	verbose      bool
	directory    string
	skip         []string
	rewriteSkip  []string
	bases        []string
	quotes       []string
	protect      []string
	include      []string
	algorithm    string
	digestLength int
	strategy     string
	manifest     string
	dryRun       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "cachebust",
		Short: "Fingerprint web build output and rewrite references to it",
		Long: `cachebust renames every file of a build directory to include a digest of
its contents, then rewrites references to the old names in every text file.
It will:
1. Rename each non-skipped file to {stem}.{digest}.{ext}
2. Build substitution rules for each replace base
3. Rewrite all references at once, so renamed names are never renamed twice`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, o.debug)

			user := log.NewUserLogger(ctx, stdout)

			cfg, err := o.resolve(ctx, cmd.Flags())
			if err != nil {
				user.Failed(err)
				return err
			}

			if err := run(ctx, cfg, o.verbose, stderr, user); err != nil {
				user.Failed(err)
				return err
			}
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd.Flags(), o)
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

func addRootFlags(fs *pflag.FlagSet, o *rootOpts) {
	fs.StringVarP(&o.configFile, "config", "c", "", "config file path (.yaml, .yml, .hcl, .json, .jsonc)")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "print one line per file")
	fs.StringVarP(&o.directory, "directory", "d", config.DefaultDirectory, "target directory")
	fs.StringArrayVarP(&o.skip, "skip", "s", nil, "file to keep unhashed, relative to the directory (repeatable)")
	fs.StringArrayVar(&o.rewriteSkip, "rewrite-skip", nil, "file whose references are not rewritten, relative to the directory (repeatable)")
	fs.StringArrayVarP(&o.bases, "base", "b", nil, `replace base relative to the directory, "" is the directory itself (repeatable, default "" and "assets")`)
	fs.StringArrayVar(&o.quotes, "quote", nil, `quote wrapped around each path (repeatable, default '"')`)
	fs.StringArrayVar(&o.protect, "protect", nil, "glob of paths referenced without quotes (repeatable, default "+`"**/flutter_service_worker.js")`)
	fs.StringArrayVar(&o.include, "include", nil, "glob of files to rewrite (repeatable, default all)")
	fs.StringVar(&o.algorithm, "algorithm", "sha256", "digest algorithm (sha256, blake3)")
	fs.IntVar(&o.digestLength, "digest-length", 8, "hex characters of digest in each name")
	fs.StringVar(&o.strategy, "strategy", string(text.StrategyAutomaton), "replacement strategy (automaton, staged)")
	fs.StringVarP(&o.manifest, "manifest", "m", "", "write the old to new mapping to this .json or .yaml file")
	fs.BoolVar(&o.dryRun, "dry-run", false, "compute everything without touching the directory")
}

// resolve loads the config file, if any, and lets explicitly set flags win
func (o *rootOpts) resolve(ctx context.Context, fs *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configFile != "" {
		loaded, err := config.Load(ctx, o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if cfg.Rewrite == nil {
		cfg.Rewrite = &config.RewriteConfig{}
	}

	// a flag beats the file only when given; otherwise the file (or its default) stands
	if fs.Changed("directory") || cfg.Directory == "" {
		cfg.Directory = o.directory
	}
	if fs.Changed("skip") {
		cfg.Skip = o.skip
	}
	if fs.Changed("rewrite-skip") {
		cfg.Rewrite.Skip = o.rewriteSkip
	}
	if fs.Changed("base") {
		cfg.Rewrite.Bases = o.bases
	}
	if fs.Changed("quote") {
		cfg.Rewrite.Quotes = o.quotes
	}
	if fs.Changed("protect") {
		cfg.Rewrite.Protect = o.protect
	}
	if fs.Changed("include") {
		cfg.Rewrite.Include = o.include
	}
	if fs.Changed("algorithm") {
		cfg.Algorithm = o.algorithm
	}
	if fs.Changed("digest-length") {
		cfg.DigestLength = o.digestLength
	}
	if fs.Changed("strategy") {
		cfg.Rewrite.Strategy = o.strategy
	}
	if fs.Changed("manifest") {
		cfg.Manifest = o.manifest
	}
	if fs.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// run executes the pipeline described by cfg and reports the outcome
func run(ctx context.Context, cfg *config.Config, verbose bool, stderr io.Writer, user *log.UserLogger) error {
	hasher, err := cfg.Hasher()
	if err != nil {
		return err
	}
	exp, err := cfg.Expander()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return errors.Errorf("resolving directory: %w", err)
	}

	console := log.New(stderr, zerolog.GlobalLevel(), verbose)
	if verbose {
		console.Header("hashing " + cfg.Directory)
	}

	res, err := operation.Pipeline(ctx, operation.Options{
		Root:         root,
		Skip:         cfg.Skip,
		RewriteSkip:  cfg.Rewrite.Skip,
		ReplaceBases: cfg.Rewrite.Bases,
		Expander:     exp,
		Hasher:       hasher,
		Strategy:     text.Strategy(cfg.Rewrite.Strategy),
		Include:      cfg.Rewrite.Include,
		DryRun:       cfg.DryRun,
		Observer:     console.Reporter(),
	})
	if err != nil {
		return err
	}

	if cfg.Manifest != "" {
		if cfg.DryRun {
			zerolog.Ctx(ctx).Warn().Str("path", cfg.Manifest).Msg("dry run, manifest not written")
		} else {
			if err := manifest.Write(cfg.Manifest, root, res.Manifest); err != nil {
				return errors.Errorf("writing manifest: %w", err)
			}
			user.ManifestWritten(cfg.Manifest, res.Manifest.Len())
		}
	}

	user.Hashed(res.Renamed, res.Rewritten, cfg.DryRun)
	return nil
}

// setupLogging puts a stderr logger in ctx. Debug shows per-file events,
// otherwise only warnings and errors are logged.
func setupLogging(ctx context.Context, stderr io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
