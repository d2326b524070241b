package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/unpack"
)

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)

	var (
		format   string
		keep     bool
		force    bool
		toStdout bool
		threads  int
	)
	fs.StringVar(&format, "format", "", "output dialect: themisto, fulgor, bifrost, metagraph, sam")
	fs.BoolVar(&keep, "k", false, "keep the input file after success")
	fs.BoolVar(&keep, "keep", false, "keep the input file after success")
	fs.BoolVar(&force, "f", false, "overwrite outputs and allow binary output to a terminal")
	fs.BoolVar(&force, "force", false, "overwrite outputs and allow binary output to a terminal")
	fs.BoolVar(&toStdout, "c", false, "write output to standard output")
	fs.BoolVar(&toStdout, "stdout", false, "write output to standard output")
	fs.IntVar(&threads, "T", 0, "decode worker count, 0 = all available")
	fs.IntVar(&threads, "threads", 0, "decode worker count, 0 = all available")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if format == "" {
		return fmt.Errorf("unpack requires --format")
	}

	ctx := context.Background()

	in, inputPath, err := openInput(ctx, fs.Args())
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	destPath := ""
	if inputPath != "" {
		destPath = strings.TrimSuffix(inputPath, ".aln")
		if destPath == inputPath {
			return fmt.Errorf("input path %s does not end in .aln; use -c/--stdout", inputPath)
		}
	}
	out, err := resolveOutput(ctx, destPath, toStdout, force, false)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	logger := alignmentwriter.NewTextLogger(slog.LevelWarn).WithRunID(uuid.New().String())
	if err := unpack.Stream(ctx, out, in, format, threads, alignmentwriter.WithLogger(logger)); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	removeInput(inputPath, keep)
	return nil
}
