// cmd/c64tap/main.go

// command c64tap analyzes, exports, and synthesizes C64 cassette-tape
// TAP images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"c64taptool/internal/constants"
	"c64taptool/internal/kernal"
	"c64taptool/internal/report"
	"c64taptool/internal/tapimage"
	"c64taptool/internal/wave"

	"github.com/pkg/errors"
)

const version = "c64tap 1.0"

func main() {
	var analyze, export, help bool
	var showVersion bool

	flag.BoolVar(&analyze, "analyze", false, "Analyze a TAP file")
	flag.BoolVar(&analyze, "a", false, "Analyze a TAP file (shorthand)")
	flag.BoolVar(&export, "export", false, "Export PRG files from a TAP file")
	flag.BoolVar(&export, "e", false, "Export PRG files from a TAP file (shorthand)")
	flag.BoolVar(&help, "help", false, "Show help")
	flag.BoolVar(&help, "?", false, "Show help (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Print version")
	conv2tap := flag.Bool("conv2tap", false, "Synthesize a TAP file from a PRG file")
	conv2wav := flag.Bool("conv2wav", false, "Synthesize a WAVE file from a PRG file")
	sampleRate := flag.Int("rate", 44100, "Sample rate for --conv2wav")
	flag.Parse()

	if help {
		printUsage()
		return
	}
	if showVersion {
		fmt.Println(version)
		return
	}

	args := flag.Args()
	var err error
	switch {
	case analyze:
		err = runAnalyze(args)
	case export:
		err = runExport(args)
	case *conv2tap:
		err = runConv2Tap(args)
	case *conv2wav:
		err = runConv2Wav(args, *sampleRate)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %+v", err)
	}
}

func printUsage() {
	fmt.Println(version)
	fmt.Println("usage:")
	fmt.Println("  c64tap --analyze|-a <tap>")
	fmt.Println("  c64tap --export|-e <tap>")
	fmt.Println("  c64tap --conv2tap <prg> <tap>")
	fmt.Println("  c64tap --conv2wav <prg> <wav> [--rate <hz>]")
	fmt.Println("  c64tap --version")
}

func loadBlocks(path string) ([]kernal.Block, error) {
	img, err := tapimage.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	fmt.Printf("TAP version: %d, payload size: %d bytes\n", img.Version, len(img.Payload))

	demod := kernal.NewDemodulator(img.Payload, 0, img.Version)
	blocks, err := kernal.Frame(demod)
	if err != nil {
		fmt.Printf("Warning: stream ended early: %v\n", err)
	}
	return blocks, nil
}

func runAnalyze(args []string) error {
	if len(args) < 1 {
		return errors.New("--analyze requires a tap file path")
	}
	blocks, err := loadBlocks(args[0])
	if err != nil {
		return err
	}
	return report.WriteAnalyze(os.Stdout, blocks)
}

func runExport(args []string) error {
	if len(args) < 1 {
		return errors.New("--export requires a tap file path")
	}
	blocks, err := loadBlocks(args[0])
	if err != nil {
		return err
	}

	prgs, issues := kernal.ExportPRGs(blocks)
	for _, issue := range issues {
		fmt.Printf("Warning: %v\n", issue)
	}
	if len(prgs) == 0 {
		fmt.Println("No program images recovered.")
		return nil
	}

	for _, p := range prgs {
		name := strings.TrimSpace(p.Header.DisplayName())
		if name == "" {
			name = "UNNAMED"
		}
		outPath := name + ".prg"

		buf := make([]byte, 2+len(p.Prg.Bytes))
		buf[0] = byte(p.Prg.LoadAddress)
		buf[1] = byte(p.Prg.LoadAddress >> 8)
		copy(buf[2:], p.Prg.Bytes)

		if err := os.WriteFile(outPath, buf, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", outPath)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(buf))
	}
	return nil
}

func readPRG(path string) (kernal.PrgFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return kernal.PrgFile{}, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) < 2 {
		return kernal.PrgFile{}, errors.Errorf("%s is too short to contain a load address", path)
	}
	return kernal.PrgFile{
		LoadAddress: uint16(data[0]) | uint16(data[1])<<8,
		Bytes:       data[2:],
	}, nil
}

func runConv2Tap(args []string) error {
	if len(args) < 2 {
		return errors.New("--conv2tap requires <prg> <tap>")
	}
	prg, err := readPRG(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(args[1]))
	if err != nil {
		return errors.Wrapf(err, "creating %s", args[1])
	}
	defer f.Close()

	if err := tapimage.WriteTAP(f, prg, constants.DefaultTapVersionOutput); err != nil {
		return errors.Wrapf(err, "writing %s", args[1])
	}
	fmt.Printf("Wrote %s\n", args[1])
	return nil
}

func runConv2Wav(args []string, sampleRate int) error {
	if len(args) < 2 {
		return errors.New("--conv2wav requires <prg> <wav>")
	}
	prg, err := readPRG(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(args[1]))
	if err != nil {
		return errors.Wrapf(err, "creating %s", args[1])
	}
	defer f.Close()

	if err := wave.Encode(f, prg, sampleRate); err != nil {
		return errors.Wrapf(err, "writing %s", args[1])
	}
	fmt.Printf("Wrote %s\n", args[1])
	return nil
}
