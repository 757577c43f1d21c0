// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command serutil is a CLI wrapper over sutil.Utility, the autodetect/
// resolve/process driver, grounded on
// original_source/src/SerializeUtility.c's command-line front end.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli"

	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/sutil"
)

func main() {
	app := cli.NewApp()
	app.Name = "serutil"
	app.Usage = "detect, deserialize, and re-emit a serialized stream"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "input", Usage: "input IOChannel open-string URL, e.g. File://data.txt"},
		cli.StringFlag{Name: "output", Usage: "output IOChannel open-string URL (default StdOut://)"},
		cli.StringFlag{Name: "data-name", Value: "data", Usage: "name of the top-level serialized element"},
		cli.StringFlag{Name: "type", Usage: "skip autodetection and force this registered type name"},
		cli.StringFlag{Name: "format", Value: "Ascii", Usage: "output wire format: Binary, Ascii, Xml, or Matlab"},
		cli.StringFlag{Name: "format-options", Usage: "sticky option string passed to the output format, e.g. WITH_TYPE=FALSE"},
		cli.UintFlag{Name: "max-elements", Usage: "stop after this many elements (0 = unbounded)"},
		cli.BoolFlag{Name: "interactive", Usage: "pause for a keypress between elements; 'q' quits early"},
		cli.BoolFlag{Name: "raw", Usage: "relay input to output verbatim, bypassing the Serializer (no type detection)"},
	}
	app.Action = func(c *cli.Context) error {
		if c.String("input") == "" {
			return cli.NewExitError("serutil: --input is required", 2)
		}
		if c.Bool("raw") {
			return runRaw(c.String("input"), c.String("output"))
		}
		u := &sutil.Utility{
			InputURL:            c.String("input"),
			OutputURL:           c.String("output"),
			DataName:            c.String("data-name"),
			TypeName:            c.String("type"),
			OutputFormat:        c.String("format"),
			OutputFormatOptions: c.String("format-options"),
			MaxElements:         uint32(c.Uint("max-elements")),
			Interactive:         c.Bool("interactive"),
		}
		if err := u.Run(); err != nil {
			glog.Errorf("serutil: run failed: %v", err)
			return cli.NewExitError(fmt.Sprintf("serutil: %v", err), 1)
		}
		glog.V(1).Infof("serutil: processed %d element(s)", u.ElementsDone)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		glog.Exit(err)
	}
}

// runRaw relays bytes from input to output verbatim, with no format
// detection or Serializer involvement at all; useful for e.g. piping a
// stream through an Lz4File:// channel to compress or decompress it.
func runRaw(inputURL, outputURL string) error {
	if outputURL == "" {
		outputURL = "StdOut://"
	}
	in := ioc.New()
	in.Init(512)
	if err := in.Open(inputURL, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		return cli.NewExitError(fmt.Sprintf("serutil: open input: %v", err), 1)
	}
	defer in.Close()

	out := ioc.New()
	if err := out.Open(outputURL, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		return cli.NewExitError(fmt.Sprintf("serutil: open output: %v", err), 1)
	}
	defer out.Close()

	n, err := ioc.Copy(out, in)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("serutil: copy: %v", err), 1)
	}
	glog.V(1).Infof("serutil: raw-copied %d byte(s)", n)
	return nil
}
