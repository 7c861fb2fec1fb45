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
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/mohae/deepcopy"
)

type (
	// Config struct bears the settings of the command layer. It controls
	// how the files are locked and rewritten and how the chunk listing is
	// rendered, not what the operations do.
	Config struct {
		// LockTimeoutSec limits how long a mutating command waits for the
		// advisory lock on the target file
		LockTimeoutSec int `json:"lockTimeoutSec"`

		// BackupSuffix, when not empty, makes in-place rewrites save the
		// original bytes to <file><BackupSuffix> first
		BackupSuffix string `json:"backupSuffix"`

		Print *PrintConfig `json:"print"`
	}

	// PrintConfig struct controls the chunk listing produced by Print
	PrintConfig struct {
		// DataPreviewLen is the number of payload bytes shown per chunk,
		// 0 disables the preview
		DataPreviewLen int `json:"dataPreviewLen"`

		// HumanSizes turns on rendering of chunk sizes like "12 kB"
		// instead of plain byte counts
		HumanSizes bool `json:"humanSizes"`
	}
)

//===================== config =====================

func NewDefaultConfig() *Config {
	return &Config{
		LockTimeoutSec: 5,
		BackupSuffix:   "",
		Print: &PrintConfig{
			DataPreviewLen: 32,
			HumanSizes:     true,
		},
	}
}

func LoadCfgFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	err = json.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply sets non-empty fields value from other to c
func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}

	if other.LockTimeoutSec != 0 {
		c.LockTimeoutSec = other.LockTimeoutSec
	}

	if other.BackupSuffix != "" {
		c.BackupSuffix = other.BackupSuffix
	}

	if other.Print != nil {
		c.Print = deepcopy.Copy(other.Print).(*PrintConfig)
	}
}

func (c *Config) Check() error {
	if c.LockTimeoutSec < 0 {
		return fmt.Errorf("invalid config; lockTimeoutSec=%d, must not be negative", c.LockTimeoutSec)
	}
	if c.Print == nil {
		return fmt.Errorf("invalid config; print=%v, must be non-nil", c.Print)
	}
	if c.Print.DataPreviewLen < 0 {
		return fmt.Errorf("invalid config; print.dataPreviewLen=%d, must not be negative", c.Print.DataPreviewLen)
	}
	return nil
}
