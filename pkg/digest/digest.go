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

package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// 🔢 Digest widths
const (
	DefaultLength = 8
	MinLength     = 4
	MaxLength     = 64 // hex width of a 256-bit sum
)

// 🔐 Algorithm names the content hash used for fingerprints
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

var ErrUnknownAlgorithm = errors.Base("unknown digest algorithm")

// 🏭 newHash returns a fresh hasher for the algorithm
func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case SHA256, "":
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, errors.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// 🔍 Validate checks that the algorithm is supported
func (a Algorithm) Validate() error {
	_, err := a.newHash()
	return err
}

// 🎯 Hasher computes truncated content digests
type Hasher struct {
	algorithm Algorithm
	length    int
}

// 🏭 New creates a hasher. A zero length means DefaultLength.
func New(algorithm Algorithm, length int) (*Hasher, error) {
	if algorithm == "" {
		algorithm = SHA256
	}
	if err := algorithm.Validate(); err != nil {
		return nil, err
	}
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength || length > MaxLength {
		return nil, errors.Errorf("digest length %d out of range [%d, %d]", length, MinLength, MaxLength)
	}
	return &Hasher{algorithm: algorithm, length: length}, nil
}

// 🏭 Default returns the sha256/8 hasher
func Default() *Hasher {
	return &Hasher{algorithm: SHA256, length: DefaultLength}
}

// Algorithm returns the hash in use. The zero Hasher uses SHA256.
func (h *Hasher) Algorithm() Algorithm {
	if h.algorithm == "" {
		return SHA256
	}
	return h.algorithm
}

// Length returns the digest width. The zero Hasher uses DefaultLength.
func (h *Hasher) Length() int {
	if h.length == 0 {
		return DefaultLength
	}
	return h.length
}

// 📝 Sum returns the digest of content
func (h *Hasher) Sum(content []byte) string {
	hh := h.hash()
	hh.Write(content)
	return hex.EncodeToString(hh.Sum(nil))[:h.Length()]
}

// 📥 SumReader streams r through the hash
func (h *Hasher) SumReader(r io.Reader) (string, error) {
	hh := h.hash()
	if _, err := io.Copy(hh, r); err != nil {
		return "", errors.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(hh.Sum(nil))[:h.Length()], nil
}

// hash never fails: the algorithm is either validated by New or empty
func (h *Hasher) hash() hash.Hash {
	if h.Algorithm() == BLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// 📄 SumFile returns the digest of the file at path
func (h *Hasher) SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sum, err := h.SumReader(f)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return sum, nil
}
