// Command streamsum computes MD4, BLAKE-256 or BLAKE2s-256 checksums of
// files, in the style of md5sum. With no file arguments it reads from
// standard input.
//
//	streamsum -a blake2s go.mod engine.go
//	cat LICENSE | streamsum -a md4
package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/urfave/cli.v1"

	"streamhash"
	"streamhash/blake256"
	"streamhash/blake2s"
	"streamhash/md4"
)

const version = "1.0.0"

func main() {
	app := cli.NewApp()
	app.Name = "streamsum"
	app.Usage = "compute MD4, BLAKE-256 or BLAKE2s-256 file checksums"
	app.Version = version
	app.ArgsUsage = "[file ...]"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "algo, a",
			Value:  "blake2s",
			Usage:  "hash algorithm: md4, blake256 or blake2s",
			EnvVar: "STREAMSUM_ALGO",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "streamsum: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	algo := ctx.String("algo")
	if _, err := newEngine(algo); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return sumStream(algo, os.Stdin, "-")
	}

	var failed bool
	for _, name := range ctx.Args() {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "streamsum: %v\n", err)
			failed = true
			continue
		}
		err = sumStream(algo, f, name)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "streamsum: %s: %v\n", name, err)
			failed = true
		}
	}
	if failed {
		return cli.NewExitError("", 1)
	}
	return nil
}

// sumStream hashes r incrementally and prints "<hex>  <name>".
func sumStream(algo string, r io.Reader, name string) error {
	e, err := newEngine(algo)
	if err != nil {
		return err
	}
	if _, err := io.Copy(e, r); err != nil {
		return err
	}
	if err := e.Finalize(); err != nil {
		return err
	}
	d, err := e.Digest()
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", streamhash.HexString(d), name)
	return nil
}

func newEngine(algo string) (*streamhash.Engine, error) {
	switch algo {
	case "md4":
		return md4.New(), nil
	case "blake256":
		return blake256.New(), nil
	case "blake2s":
		return blake2s.New(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q (want md4, blake256 or blake2s)", algo)
	}
}
