// objsplit splits Wavefront OBJ meshes into one file per material.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Faultbox/objsplit/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "objsplit"
	app.Usage = "split wavefront obj meshes by material"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "config file (default: ./objsplit.yaml or the user config dir)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write JSON logs to this file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "split",
			Usage: "write one obj file per material",
			Description: `
Parse each input file, group its faces by the active usemtl and write every
group to {input}_{material}.obj with its own densely renumbered v, vt and vn
records. A group that references a missing record is skipped; the other
groups of the same input are still written.`,
			ArgsUsage: "file1.obj file2.obj ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output directory (default: next to the input)",
				},
				cli.StringFlag{
					Name:  "orphans",
					Usage: "faces before the first usemtl: drop, error or default",
				},
				cli.IntFlag{
					Name:  "workers, j",
					Usage: "material groups processed in parallel (default: GOMAXPROCS)",
				},
			},
			Action: splitFiles,
		},
		{
			Name:      "info",
			Usage:     "show the material groups of an obj file without writing anything",
			ArgsUsage: "file.obj",
			Action:    showInfo,
		},
		{
			Name:  "textures",
			Usage: "upscale and flip the texture images in a directory",
			Description: `
Every image directly inside DIR is scaled up with nearest-neighbour sampling,
flipped vertically and written back in its original format.`,
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "scale, s",
					Usage: "integer upscale factor (default: 10)",
				},
				cli.BoolFlag{
					Name:  "no-flip",
					Usage: "keep the row order",
				},
			},
			Action: prepareTextures,
		},
		{
			Name:  "config",
			Usage: "manage the config file",
			Subcommands: []cli.Command{
				{
					Name:      "init",
					Usage:     "write the default config",
					ArgsUsage: "[PATH]",
					Action:    initConfig,
				},
			},
		},
	}
	app.After = func(ctx *cli.Context) error {
		logger.Sync()
		return nil
	}
	return app
}
