// Package config loads cachebust settings from YAML, HCL or JSON files.
//
//	            +-------------+
//	            |   Config    |
//	            | (Settings)  |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+-----+ +----+----+ +-----+-----+
//	|   YAML    | |   HCL   | |   JSON    |
//	|  Parser   | | Parser  | | (+comments)|
//	+-----------+ +---------+ +-----------+
//
// 🎯 Purpose:
// - Picks a parser from the file extension
// - Fills defaults for anything left unset
// - Validates algorithm, digest length, strategy and glob patterns
//
// 🔄 Flow:
// 1. Reads configuration from file
// 2. Parses format-specific syntax, rejecting unknown keys
// 3. Applies defaults and expands ~ in paths
// 4. Hands the validated config to the command layer, where flags win
//
// 🔍 Example (YAML):
//
//	directory: ./build/web
//	skip:
//	  - index.html
//	  - flutter_service_worker.js
//	digest_length: 10
//	rewrite:
//	  bases: ["", assets]
//	  include: ["**/*.{html,js,json,css}"]
//
// 🔍 Example (HCL):
//
//	directory = "${home}/site/build/web"
//	algorithm = "blake3"
//
//	rewrite {
//	  strategy = "staged"
//	}
package config
