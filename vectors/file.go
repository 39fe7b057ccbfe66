// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package vectors

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdSuffix marks a compressed vector file.
const zstdSuffix = ".zst"

var (
	zstdDecoder *zstd.Decoder
	zstdEncoder *zstd.Encoder
)

func init() {
	z, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
	e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic(err)
	}
	zstdEncoder = e
}

// Load reads a vector set from path.
// Files ending in ".zst" are decompressed first.
func Load(path string) (*Set, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, zstdSuffix) {
		buf, err = zstdDecoder.DecodeAll(buf, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: zstd: %w", path, err)
		}
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Save writes s to path as YAML, compressing
// it when path ends in ".zst".
func Save(path string, s *Set) error {
	buf, err := s.Marshal()
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, zstdSuffix) {
		buf = zstdEncoder.EncodeAll(buf, nil)
	}
	return os.WriteFile(path, buf, 0644)
}

//go:embed c99.yaml
var builtinYAML []byte

var (
	builtinOnce sync.Once
	builtinSet  *Set
)

// Builtin returns the C99 special-case corpus
// compiled into the package. Each call returns
// a fresh Set that the caller may append to.
func Builtin() *Set {
	builtinOnce.Do(func() {
		s, err := Parse(builtinYAML)
		if err != nil {
			panic("vectors: builtin corpus: " + err.Error())
		}
		builtinSet = s
	})
	out := &Set{Name: builtinSet.Name}
	out.Vectors = append(out.Vectors, builtinSet.Vectors...)
	return out
}
