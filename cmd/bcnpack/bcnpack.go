// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// bcnpack encodes images to the BCn (Block Compression) GPU texture formats,
// wrapped in a DDS or KTX container file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/nigeltao/bcn/lib/bcn"
	"github.com/nigeltao/bcn/lib/dds"
	"github.com/nigeltao/bcn/lib/ktx"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	formatFlag    = flag.String("format", "bc7", "BCn format")
	containerFlag = flag.String("container", "dds", "container format")
	outputFlag    = flag.String("o", "", "output path")
	bc7ThreeFlag  = flag.Bool("bc7-3subsets", false, "whether BC7 also tries the three subset modes")
	bc7Mode6Flag  = flag.Bool("bc7-mode6", false, "whether BC7 only uses mode 6")
	workersFlag   = flag.Int("workers", 0, "number of encoding goroutines")
	zstdFlag      = flag.Bool("zstd", false, "whether to zstd-compress the output")
	ycbcrFlag     = flag.Bool("ycbcr", false, "whether to split into two BC5 luma/alpha and chroma files")
	verboseFlag   = flag.Bool("v", false, "whether to print statistics to stderr")
)

const usageStr = `bcnpack encodes images to the BCn GPU texture formats.

Usage: bcnpack [flags] [path]

The path to the input image file is optional. If omitted, stdin is read.
Inputs can be BMP, GIF, JPEG, PNG, TIFF or WEBP.

Flags (before the path):

    -format=bc4 (or bc4s, bc5, bc5s, bc7; bc7 is the default)
    -container=dds (this is the default)
    -container=ktx
    -container=raw (blocks only, with no header)
    -o=path (the default is to write to stdout)
    -bc7-3subsets (also try the slower three subset BC7 modes)
    -bc7-mode6 (encode every BC7 block in mode 6)
    -workers=N (the default, 0, means one per CPU)
    -zstd (compress the container file with Zstandard)
    -ycbcr (encode Y+A and Cb+Cr as two BC5 files, which requires -o)
    -v (print statistics to stderr)

With -ycbcr, the two outputs are named by inserting ".ya" and ".cbcr" into
the -o path, before its first extension. For example, -o=out.dds writes
out.ya.dds and out.cbcr.dds. The chroma image has half the width and height
of the input.
`

var (
	ErrBadContainerFlag = errors.New("main: bad -container flag")
	ErrYCbCrNeedsOutput = errors.New("main: -ycbcr requires -o")
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	format, err := bcn.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}
	switch *containerFlag {
	case "dds", "ktx", "raw":
		// No-op.
	default:
		return ErrBadContainerFlag
	}
	if *ycbcrFlag && (*outputFlag == "") {
		return ErrYCbCrNeedsOutput
	}

	src, _, err := image.Decode(inFile)
	if err != nil {
		return err
	}

	bcnOptions := &bcn.EncodeOptions{Workers: *workersFlag}
	if *bc7ThreeFlag {
		bcnOptions.BC7Flags |= bcn.BC7UseThreeSubsets
	}
	if *bc7Mode6Flag {
		bcnOptions.BC7Flags |= bcn.BC7ForceMode6
	}

	if !*ycbcrFlag {
		return encode(*outputFlag, src, format, bcnOptions)
	}

	ya, cbcr := bcn.SplitYCbCrA(src)
	if err := encode(insertSuffix(*outputFlag, ".ya"), ya, bcn.FormatBC5Unsigned, bcnOptions); err != nil {
		return err
	}
	return encode(insertSuffix(*outputFlag, ".cbcr"), cbcr, bcn.FormatBC5Unsigned, bcnOptions)
}

// insertSuffix inserts suffix into the file name part of path, before its
// first '.'.
func insertSuffix(path string, suffix string) string {
	dir, file := filepath.Split(path)
	if i := strings.IndexByte(file, '.'); i > 0 {
		return dir + file[:i] + suffix + file[i:]
	}
	return path + suffix
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// encode writes src, encoded in format f and wrapped in the -container file
// format, to outPath (or to stdout if outPath is empty).
func encode(outPath string, src image.Image, f bcn.Format, bcnOptions *bcn.EncodeOptions) (retErr error) {
	outFile := os.Stdout
	if outPath != "" {
		o, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := o.Close(); retErr == nil {
				retErr = err
			}
		}()
		outFile = o
	}

	compressed := &countingWriter{w: outFile}
	uncompressed := &countingWriter{w: compressed}
	var zenc *zstd.Encoder
	if *zstdFlag {
		z, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}
		zenc = z
		uncompressed.w = zenc
	}

	start := time.Now()
	var err error
	switch *containerFlag {
	case "dds":
		err = dds.Encode(uncompressed, src, &dds.EncodeOptions{Format: f, BCnOptions: bcnOptions})
	case "ktx":
		err = ktx.Encode(uncompressed, src, &ktx.EncodeOptions{Format: f, BCnOptions: bcnOptions})
	default:
		err = bcn.Encode(uncompressed, src, f, bcnOptions)
	}
	if zenc != nil {
		if cErr := zenc.Close(); err == nil {
			err = cErr
		}
	}
	if err != nil {
		return err
	}

	if *verboseFlag {
		b := src.Bounds()
		name := outPath
		if name == "" {
			name = "stdout"
		}
		fmt.Fprintf(os.Stderr, "%s: %s %s, %dx%d pixels, %d blocks, %d bytes",
			name, *containerFlag, f, b.Dx(), b.Dy(),
			((b.Dx()+3)/4)*((b.Dy()+3)/4), uncompressed.n)
		if zenc != nil {
			fmt.Fprintf(os.Stderr, " (%d zstd)", compressed.n)
		}
		fmt.Fprintf(os.Stderr, ", %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
