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

package commands

import (
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/pngrave/pngrave/pkg/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPng writes a minimal stream holding only the IEND chunk and
// returns its path
func writeTestPng(t *testing.T, dir string) string {
	c, err := png.NewTextChunk("IEND", "")
	require.NoError(t, err)

	p := png.New()
	p.Insert(c)

	fn := path.Join(dir, "test.png")
	require.NoError(t, ioutil.WriteFile(fn, p.Bytes(), 0644))
	return fn
}

func testDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "pngrave-cmd-test")
	require.NoError(t, err)
	return dir
}

func TestEncodeDecodeRemove(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	fn := writeTestPng(t, dir)

	err := Encode(cfg, fn, "teXt", "hello", "")
	require.NoError(t, err)

	msg, err := Decode(cfg, fn, "teXt")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg)

	err = Remove(cfg, fn, "teXt")
	require.NoError(t, err)

	// the "nothing embedded" outcome carries a matchable code
	_, err = Decode(cfg, fn, "teXt")
	pe, ok := png.GetError(err)
	if !ok || pe.Code != png.ErrCodeNotFound {
		t.Fatal("Expecting ErrCodeNotFound, but err=", err)
	}

	// the file must be parseable after the whole round and hold only IEND
	data, err := ioutil.ReadFile(fn)
	require.NoError(t, err)
	p, err := png.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 1, len(p.Chunks()))
	assert.Equal(t, "IEND", p.Chunks()[0].Type().String())
}

func TestEncodeToOut(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	fn := writeTestPng(t, dir)
	orig, err := ioutil.ReadFile(fn)
	require.NoError(t, err)

	out := path.Join(dir, "out.png")
	err = Encode(cfg, fn, "teXt", "hello", out)
	require.NoError(t, err)

	// the source is untouched, the message went to the out file
	data, err := ioutil.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, orig, data)

	msg, err := Decode(cfg, out, "teXt")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg)
}

func TestEncodeBackup(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	cfg.BackupSuffix = ".bak"
	fn := writeTestPng(t, dir)
	orig, err := ioutil.ReadFile(fn)
	require.NoError(t, err)

	err = Encode(cfg, fn, "teXt", "hello", "")
	require.NoError(t, err)

	bak, err := ioutil.ReadFile(fn + ".bak")
	require.NoError(t, err)
	assert.Equal(t, orig, bak)
}

func TestEncodeBadType(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	fn := writeTestPng(t, dir)

	err := Encode(cfg, fn, "Ru1t", "hello", "")
	pe, ok := png.GetError(err)
	if !ok || pe.Code != png.ErrCodeInvalidByte {
		t.Fatal("Expecting ErrCodeInvalidByte, but err=", err)
	}
}

func TestRemoveNotFound(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	fn := writeTestPng(t, dir)
	orig, err := ioutil.ReadFile(fn)
	require.NoError(t, err)

	err = Remove(cfg, fn, "teXt")
	pe, ok := png.GetError(err)
	if !ok || pe.Code != png.ErrCodeNotFound {
		t.Fatal("Expecting ErrCodeNotFound, but err=", err)
	}

	// a failed remove must not rewrite the file
	data, err := ioutil.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, orig, data)
}

func TestDecodeAbsentFile(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	_, err := Decode(cfg, path.Join(dir, "absent.png"), "teXt")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	dir := testDir(t)
	defer os.RemoveAll(dir)

	cfg := NewDefaultConfig()
	fn := writeTestPng(t, dir)
	require.NoError(t, Encode(cfg, fn, "teXt", "hello", ""))

	out, err := Print(cfg, fn)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "2 chunk(s)"))
	assert.True(t, strings.Contains(out, "teXt"))
	assert.True(t, strings.Contains(out, "IEND"))
	assert.True(t, strings.Contains(out, `"hello"`))

	cfg.Print.HumanSizes = false
	out, err = Print(cfg, fn)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "teXt 5"))
}
