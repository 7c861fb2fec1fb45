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

package main

import (
	"flag"
	"testing"

	"github.com/pngrave/pngrave/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v2"
)

func testContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int(argLockTimeout, 0, "")
	set.String(argBackupSuffix, "", "")
	set.Int(argPreviewLen, 0, "")
	set.Bool(argNoHumanSizes, false, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestApplyArgsToCfg(t *testing.T) {
	cfg := commands.NewDefaultConfig()
	err := applyArgsToCfg(testContext(t, "--lock-timeout", "30", "--backup-suffix", ".bak"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.LockTimeoutSec)
	assert.Equal(t, ".bak", cfg.BackupSuffix)
	assert.Equal(t, 32, cfg.Print.DataPreviewLen)
	assert.True(t, cfg.Print.HumanSizes)
}

func TestApplyArgsToCfgNoFlags(t *testing.T) {
	cfg := commands.NewDefaultConfig()
	err := applyArgsToCfg(testContext(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, commands.NewDefaultConfig(), cfg)
}

// --preview-len 0 is a valid way to turn the data preview off, it must
// not be treated as an absent flag
func TestApplyArgsToCfgPreviewLenZero(t *testing.T) {
	cfg := commands.NewDefaultConfig()
	err := applyArgsToCfg(testContext(t, "--preview-len", "0", "--raw-sizes"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Print.DataPreviewLen)
	assert.False(t, cfg.Print.HumanSizes)
}
