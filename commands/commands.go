// Copyright 2018-2019 The pngrave Authors
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

// commands package contains the file-level operations of the pngrave
// tool - every operation reads a PNG file, runs one of the chunk stream
// operations from pkg/png against it and, for the mutating ones, writes
// the result back. Mutating operations hold an advisory lock on the
// source file for the whole read-modify-write sequence.
package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/jrivets/log4g"
	"github.com/pkg/errors"
	"github.com/pngrave/pngrave/pkg/png"
)

var logger = log4g.GetLogger("pngrave.commands")

const lockRetryDelay = 50 * time.Millisecond

// Encode embeds message into the PNG file under the chunk type typeText.
// The new chunk is placed before the terminal chunk of the stream. The
// result is written to out, or back to file if out is empty.
func Encode(cfg *Config, file, typeText, message, out string) error {
	c, err := png.NewTextChunk(typeText, message)
	if err != nil {
		return err
	}

	if out == "" {
		out = file
	}

	err = rewrite(cfg, file, out, func(p *png.Png) error {
		p.Insert(c)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Wrote ", len(message), " byte(s) under the type ", typeText, " to ", out)
	return nil
}

// Decode returns the message embedded in the PNG file under the chunk
// type typeText. The first chunk of the type wins if there are several.
func Decode(cfg *Config, file, typeText string) (string, error) {
	p, err := readPng(file)
	if err != nil {
		return "", err
	}

	c := p.ChunkByType(typeText)
	if c == nil {
		return "", png.NewError(png.ErrCodeNotFound,
			fmt.Sprintf("no chunk of the type %q in %s", typeText, file))
	}

	return c.DataAsString()
}

// Remove removes the first chunk of the type typeText from the PNG file
// and rewrites the file in place
func Remove(cfg *Config, file, typeText string) error {
	err := rewrite(cfg, file, file, func(p *png.Png) error {
		_, err := p.Remove(typeText)
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("Removed the first chunk of the type ", typeText, " from ", file)
	return nil
}

// Print renders the chunk listing of the PNG file for humans
func Print(cfg *Config, file string) (string, error) {
	p, err := readPng(file)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d chunk(s)\n", file, len(p.Chunks()))
	for i, c := range p.Chunks() {
		fmt.Fprintf(&sb, "%4d: %s %s", i, c.Type(), formatSize(cfg, c.Length()))
		if pv := dataPreview(c, cfg.Print.DataPreviewLen); pv != "" {
			sb.WriteString(" ")
			sb.WriteString(pv)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// rewrite runs the whole read-modify-write sequence for the file under an
// advisory lock: no other pngrave process will rewrite it concurrently.
// The original bytes are saved to a backup first, if the config asks for
// one and the file is rewritten in place.
func rewrite(cfg *Config, file, out string, mutate func(p *png.Png) error) error {
	fl := flock.New(file)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.LockTimeoutSec)*time.Second)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return errors.Wrapf(err, "could not acquire the lock for %s within %ds", file, cfg.LockTimeoutSec)
	}
	if !locked {
		return errors.Errorf("could not acquire the lock for %s within %ds", file, cfg.LockTimeoutSec)
	}
	defer fl.Unlock()

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "could not read %s", file)
	}

	p, err := png.Parse(data)
	if err != nil {
		return err
	}

	if err = mutate(p); err != nil {
		return err
	}

	if cfg.BackupSuffix != "" && out == file {
		bf := file + cfg.BackupSuffix
		if err = ioutil.WriteFile(bf, data, 0644); err != nil {
			return errors.Wrapf(err, "could not write the backup %s", bf)
		}
		logger.Debug("Saved original bytes of ", file, " to ", bf)
	}

	if err = ioutil.WriteFile(out, p.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "could not write %s", out)
	}
	return nil
}

func readPng(file string) (*png.Png, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", file)
	}
	return png.Parse(data)
}

func formatSize(cfg *Config, size uint32) string {
	if cfg.Print.HumanSizes {
		return humanize.Bytes(uint64(size))
	}
	return fmt.Sprint(size)
}

// dataPreview renders up to n payload bytes of the chunk - quoted, if the
// prefix is a printable text, or in hex otherwise
func dataPreview(c *png.Chunk, n int) string {
	if n == 0 || c.Length() == 0 {
		return ""
	}

	data := c.Data()
	trunc := len(data) > n
	if trunc {
		data = data[:n]
	}

	var s string
	if isPrintable(data) {
		s = strconv.Quote(string(data))
	} else {
		s = "0x" + hex.EncodeToString(data)
	}

	if trunc {
		s += "..."
	}
	return s
}

func isPrintable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b < 32 && b != '\t' {
			return false
		}
	}
	return true
}
