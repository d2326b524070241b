package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	localfs "github.com/tmaklin/alignment-writer/internal/fs"
	"github.com/tmaklin/alignment-writer/manifest"
	"github.com/tmaklin/alignment-writer/pack"
	"github.com/tmaklin/alignment-writer/queryindex"
	"github.com/tmaklin/alignment-writer/remoteio"
	"github.com/tmaklin/alignment-writer/targetindex"
	"github.com/tmaklin/alignment-writer/transcode"
)

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)

	var (
		reads      string
		targetList string
		format     string
		bufferSize int
		keep       bool
		force      bool
		toStdout   bool
		threads    int
	)
	fs.StringVar(&reads, "reads", "", "path to the FASTA/FASTQ reads file defining query order")
	fs.StringVar(&targetList, "target-list", "", "path to the target-list file defining target column order")
	fs.StringVar(&format, "format", "", "input dialect: themisto, fulgor, bifrost, metagraph, sam")
	fs.IntVar(&bufferSize, "buffer-size", alignmentwriter.DefaultBufferSize, "hits per block before flushing")
	fs.BoolVar(&keep, "k", false, "keep the input file after success")
	fs.BoolVar(&keep, "keep", false, "keep the input file after success")
	fs.BoolVar(&force, "f", false, "overwrite outputs and allow binary output to a terminal")
	fs.BoolVar(&force, "force", false, "overwrite outputs and allow binary output to a terminal")
	fs.BoolVar(&toStdout, "c", false, "write output to standard output")
	fs.BoolVar(&toStdout, "stdout", false, "write output to standard output")
	fs.IntVar(&threads, "T", 1, "unused by pack, accepted for flag-surface symmetry with unpack")
	fs.IntVar(&threads, "threads", 1, "unused by pack, accepted for flag-surface symmetry with unpack")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if reads == "" || targetList == "" || format == "" {
		return fmt.Errorf("pack requires --reads, --target-list, and --format")
	}

	ctx := context.Background()

	readsFile, err := remoteio.Open(ctx, reads)
	if err != nil {
		return fmt.Errorf("open reads file: %w", err)
	}
	defer readsFile.Close()
	qIndex, err := queryindex.FromReads(readsFile)
	if err != nil {
		return fmt.Errorf("build query index: %w", err)
	}

	targetListFile, err := remoteio.Open(ctx, targetList)
	if err != nil {
		return fmt.Errorf("open target-list file: %w", err)
	}
	defer targetListFile.Close()
	tIndex, err := targetindex.FromList(targetListFile)
	if err != nil {
		return fmt.Errorf("build target index: %w", err)
	}

	in, inputPath, err := openInput(ctx, fs.Args())
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	textReader, err := transcode.Open(in)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	destPath := ""
	if inputPath != "" {
		destPath = inputPath + ".aln"
	}
	out, err := resolveOutput(ctx, destPath, toStdout, force, true)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	input := pack.Input{
		Format:      format,
		QIndex:      qIndex,
		TIndex:      tIndex,
		NQueries:    qIndex.Len(),
		NTargets:    tIndex.Len(),
		TargetNames: tIndex.Names(),
	}

	manifestDir := "."
	manifestKey := destPath
	switch {
	case destPath == "":
		manifestKey = "stdout"
	case isRemote(destPath):
		manifestDir = "."
	default:
		manifestDir = filepath.Dir(destPath)
	}
	manifestStore := manifest.NewLocalStore(localfs.Default, manifestDir)

	logger := alignmentwriter.NewTextLogger(slog.LevelWarn).WithRunID(uuid.New().String())
	if err := pack.Pack(ctx, out, textReader, input,
		alignmentwriter.WithBufferSize(bufferSize),
		alignmentwriter.WithLogger(logger),
		alignmentwriter.WithManifest(manifestStore, manifestKey),
	); err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	removeInput(inputPath, keep)
	return nil
}
