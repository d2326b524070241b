// Command alignment-writer packs pseudoalignment text into the binary
// packed-file format and unpacks it back, implementing the CLI surface
// in component P.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage(os.Stderr)
		return 1
	}

	var err error
	switch args[0] {
	case "pack":
		err = runPack(args[1:])
	case "unpack", "-d":
		err = runUnpack(args[1:])
	case "-h", "--help", "help":
		usage(os.Stdout)
		return 0
	default:
		usage(os.Stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "alignment-writer: %v\n", err)
		return 1
	}
	return 0
}

func usage(w *os.File) {
	fmt.Fprintln(w, `usage:
  alignment-writer pack   --reads <path> --target-list <path> --format <name> [options] [<input>]
  alignment-writer unpack --format <name> [options] [<input>]
  alignment-writer -d     --format <name> [options] [<input>]

options:
  --buffer-size <N>   hits per block before flushing (pack only, default 256000)
  -T, --threads <N>   decode worker count (unpack only, 0 = all available)
  -k, --keep          keep the input file after success
  -f, --force         overwrite outputs and allow binary output to a terminal
  -c, --stdout        write output to standard output

formats: themisto, fulgor, bifrost, metagraph, sam`)
}
