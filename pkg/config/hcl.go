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

package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/mitchellh/go-homedir"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 📄 HCLParser reads .hcl files
type HCLParser struct{}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".hcl"
}

// hclConfig is the HCL schema of Config
type hclConfig struct {
	Directory    string   `hcl:"directory,optional"`
	Skip         []string `hcl:"skip,optional"`
	Algorithm    string   `hcl:"algorithm,optional"`
	DigestLength int      `hcl:"digest_length,optional"`
	Manifest     string   `hcl:"manifest,optional"`
	DryRun       bool     `hcl:"dry_run,optional"`
	Rewrite      *struct {
		Skip     []string `hcl:"skip,optional"`
		Bases    []string `hcl:"bases,optional"`
		Include  []string `hcl:"include,optional"`
		Strategy string   `hcl:"strategy,optional"`
		Quotes   []string `hcl:"quotes,optional"`
		Protect  []string `hcl:"protect,optional"`
	} `hcl:"rewrite,block"`
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "cachebust.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	home, _ := homedir.Dir()

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home": cty.StringVal(home),
		},
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Directory:    hclCfg.Directory,
		Skip:         hclCfg.Skip,
		Algorithm:    hclCfg.Algorithm,
		DigestLength: hclCfg.DigestLength,
		Manifest:     hclCfg.Manifest,
		DryRun:       hclCfg.DryRun,
	}
	if hclCfg.Rewrite != nil {
		cfg.Rewrite = &RewriteConfig{
			Skip:     hclCfg.Rewrite.Skip,
			Bases:    hclCfg.Rewrite.Bases,
			Include:  hclCfg.Rewrite.Include,
			Strategy: hclCfg.Rewrite.Strategy,
			Quotes:   hclCfg.Rewrite.Quotes,
			Protect:  hclCfg.Rewrite.Protect,
		}
	}

	return cfg, nil
}
