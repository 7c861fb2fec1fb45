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
	"fmt"
	"os"
	"sort"

	"github.com/jrivets/log4g"
	"github.com/mitchellh/mapstructure"
	"github.com/pngrave/pngrave/commands"
	"gopkg.in/urfave/cli.v2"
)

const (
	Version = "0.1.0"
)

const (
	argCfgFile      = "config-file"
	argLogCfgFile   = "log-config-file"
	argLockTimeout  = "lock-timeout"
	argBackupSuffix = "backup-suffix"
	argOutFile      = "out"
	argPreviewLen   = "preview-len"
	argNoHumanSizes = "raw-sizes"
)

// main is the entry point of the 'pngrave' command. pngrave embeds, reads
// and strips application-defined chunks in PNG files. The functionality
// is:
// 		encode - add a text chunk with a message to a PNG file
// 		decode - read the message stored under a chunk type
// 		remove - strip the first chunk of a type from a PNG file
// 		print  - list the chunks of a PNG file
func main() {
	defer log4g.Shutdown()

	cmnFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  argCfgFile,
			Usage: "configuration file path",
		},
		&cli.StringFlag{
			Name:  argLogCfgFile,
			Usage: "log4g configuration file path",
		},
	}

	mutFlags := append([]cli.Flag{
		&cli.IntFlag{
			Name:  argLockTimeout,
			Usage: "seconds to wait for the file lock",
		},
		&cli.StringFlag{
			Name:  argBackupSuffix,
			Usage: "save the original file with the suffix before rewriting it in place, e.g. \".bak\"",
		},
	}, cmnFlags...)

	app := &cli.App{
		Name:    "pngrave",
		Version: Version,
		Usage:   "Hide messages in PNG files",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Embed a message into a PNG file",
				UsageText: "pngrave encode [command options] <file> <chunk type> <message>",
				Action:    runEncode,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  argOutFile,
						Usage: "write the result to the file instead of rewriting the source in place",
					},
				}, mutFlags...),
			},
			{
				Name:      "decode",
				Usage:     "Read the message stored under a chunk type",
				UsageText: "pngrave decode [command options] <file> <chunk type>",
				Action:    runDecode,
				Flags:     cmnFlags,
			},
			{
				Name:      "remove",
				Usage:     "Strip the first chunk of a type from a PNG file",
				UsageText: "pngrave remove [command options] <file> <chunk type>",
				Action:    runRemove,
				Flags:     mutFlags,
			},
			{
				Name:      "print",
				Usage:     "List the chunks of a PNG file",
				UsageText: "pngrave print [command options] <file>",
				Action:    runPrint,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  argPreviewLen,
						Usage: "number of payload bytes shown per chunk",
					},
					&cli.BoolFlag{
						Name:  argNoHumanSizes,
						Usage: "print plain byte counts instead of human-readable sizes",
					},
				}, cmnFlags...),
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func runEncode(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expecting 3 arguments: <file> <chunk type> <message>, but %d given", c.Args().Len())
	}

	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	return commands.Encode(cfg, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), c.String(argOutFile))
}

func runDecode(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expecting 2 arguments: <file> <chunk type>, but %d given", c.Args().Len())
	}

	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	msg, err := commands.Decode(cfg, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

func runRemove(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expecting 2 arguments: <file> <chunk type>, but %d given", c.Args().Len())
	}

	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	return commands.Remove(cfg, c.Args().Get(0), c.Args().Get(1))
}

func runPrint(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expecting 1 argument: <file>, but %d given", c.Args().Len())
	}

	cfg, err := initCfg(c)
	if err != nil {
		return err
	}

	out, err := commands.Print(cfg, c.Args().Get(0))
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

func initCfg(c *cli.Context) (*commands.Config, error) {
	cfg := commands.NewDefaultConfig()

	logCfgFile := c.String(argLogCfgFile)
	if logCfgFile != "" {
		err := log4g.ConfigF(logCfgFile)
		if err != nil {
			return nil, err
		}
	}

	cfgFile := c.String(argCfgFile)
	if cfgFile != "" {
		config, err := commands.LoadCfgFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(config)
	}

	if err := applyArgsToCfg(c, cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Check()
}

// applyArgsToCfg overrides the config values by the flags provided in the
// command line. The flags are collected into a map first, so only the
// provided ones touch the config.
func applyArgsToCfg(c *cli.Context, cfg *commands.Config) error {
	params := map[string]interface{}{}
	if v := c.Int(argLockTimeout); v != 0 {
		params["lockTimeoutSec"] = v
	}
	if v := c.String(argBackupSuffix); v != "" {
		params["backupSuffix"] = v
	}

	prnParams := map[string]interface{}{}
	// zero is a meaningful value here (it disables the preview), so the
	// flag presence is checked, not the value
	if c.IsSet(argPreviewLen) {
		prnParams["dataPreviewLen"] = c.Int(argPreviewLen)
	}
	if c.Bool(argNoHumanSizes) {
		prnParams["humanSizes"] = false
	}
	if len(prnParams) > 0 {
		params["print"] = prnParams
	}

	return mapstructure.Decode(params, cfg)
}
