package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objsplit/internal/config"
	"github.com/Faultbox/objsplit/internal/logger"
	"github.com/Faultbox/objsplit/internal/splitter"
	"github.com/Faultbox/objsplit/pkg/texprep"
)

// setup loads the configuration for a command and initializes logging from it.
func setup(ctx *cli.Context, o config.Overrides) (*config.Config, error) {
	o.Debug = ctx.GlobalBool("debug")
	o.LogFile = ctx.GlobalString("log-file")

	cfg, err := config.Load(ctx.GlobalString("config"), o)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func splitFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("split: no input files")
	}

	cfg, err := setup(ctx, config.Overrides{
		OutputDir:   ctx.String("out"),
		OrphanFaces: ctx.String("orphans"),
		Workers:     ctx.Int("workers"),
	})
	if err != nil {
		return err
	}

	s := splitter.New(cfg.Split, nil)

	var errs error
	for _, input := range ctx.Args() {
		report, err := s.Split(input)
		if err != nil {
			logger.Error("split failed", logger.Path(input), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Info("split complete",
			logger.Path(input),
			zap.Int("outputs", len(report.Outputs)),
			zap.Int("dropped_faces", report.DroppedFaces),
		)
	}
	return errs
}

func showInfo(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("info: expected exactly one input file")
	}

	cfg, err := setup(ctx, config.Overrides{})
	if err != nil {
		return err
	}

	report, err := splitter.New(cfg.Split, nil).Plan(ctx.Args().First())
	if report == nil {
		return err
	}
	writeReport(ctx.App.Writer, report)
	return err
}

// writeReport renders one row per material group.
func writeReport(w io.Writer, report *splitter.Report) {
	fmt.Fprintf(w, "%s: %d lines, %d materials, %d dropped faces\n",
		report.Input, report.Lines, len(report.Outputs), report.DroppedFaces)

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Material", "Faces", "v", "vt", "vn", "Output"})

	var faces int
	for _, out := range report.Outputs {
		faces += out.Faces
		target := out.Path
		if out.Err != nil {
			target = "error: " + out.Err.Error()
		}
		table.Append([]string{
			out.Material,
			strconv.Itoa(out.Faces),
			strconv.Itoa(out.Vertices),
			strconv.Itoa(out.TexCoords),
			strconv.Itoa(out.Normals),
			target,
		})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(faces), "", "", "", ""})
	table.Render()
}

func prepareTextures(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("textures: expected exactly one directory")
	}

	cfg, err := setup(ctx, config.Overrides{
		Scale:  ctx.Int("scale"),
		NoFlip: ctx.Bool("no-flip"),
	})
	if err != nil {
		return err
	}

	opts := texprep.Options{
		Scale:        cfg.Textures.Scale,
		FlipVertical: cfg.Textures.FlipVertical,
		Extensions:   cfg.Textures.Extensions,
	}

	results, err := texprep.ProcessDir(ctx.Args().First(), opts)
	log := logger.Named("textures")
	for _, res := range results {
		log.Info("texture prepared",
			logger.Path(res.Path),
			zap.String("format", res.Format),
			zap.Stringer("before", res.Before),
			zap.Stringer("after", res.After),
		)
	}
	for _, e := range multierr.Errors(err) {
		log.Error("texture failed", zap.Error(e))
	}
	return err
}

func initConfig(ctx *cli.Context) error {
	cfg := config.Default()

	if path := ctx.Args().First(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "wrote %s\n", path)
		return nil
	}

	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "wrote %s\n", path)
	return nil
}
