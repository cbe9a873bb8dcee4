// Command binbin builds sample binaries with the binbin format emitters and
// shows where each region landed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/format/wasm"
)

func main() {
	var (
		format      = flag.String("format", "wasm", "Artifact to build: wasm or elf")
		order       = flag.String("endian", "little", "Byte order for elf: little or big")
		outFile     = flag.String("o", "", "Write the artifact to this file")
		checksum    = flag.Bool("checksum", false, "Append an xxhash64 checksum section (wasm)")
		runFunc     = flag.String("run", "", "Call this export of the wasm artifact with the remaining arguments")
		verbose     = flag.Bool("v", false, "Log writer operations to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		binbin.SetLogger(logger)
	}

	e, err := parseEndian(*order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := buildArtifact(*format, e, *checksum)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(a, *outFile, *runFunc, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseEndian(s string) (endian.Endian, error) {
	switch s {
	case "little", "le":
		return endian.Little, nil
	case "big", "be":
		return endian.Big, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", s)
}

func run(a *artifact, outFile, runFunc string, args []string) error {
	if outFile != "" {
		if err := writeArtifact(afero.NewOsFs(), outFile, a); err != nil {
			return fmt.Errorf("write %s: %w", outFile, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(a.data))
	}

	if runFunc != "" {
		out, err := callExport(context.Background(), a.data, runFunc, args)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	if outFile == "" {
		plain := !term.IsTerminal(int(os.Stdout.Fd()))
		printDump(os.Stdout, a, plain)
	}
	if found, err := wasm.VerifyChecksum(a.data); found {
		if err != nil {
			return err
		}
		fmt.Println("checksum ok")
	}
	return nil
}

// writeArtifact emits the artifact again straight into the destination file,
// which only appears once it is complete.
func writeArtifact(fs afero.Fs, name string, a *artifact) error {
	_, err := binbin.WriteFile(fs, name, a.order, func(w *binbin.Writer) (struct{}, error) {
		return struct{}{}, a.emit(w)
	})
	return err
}

func printDump(out io.Writer, a *artifact, plain bool) {
	d := &dumper{regions: a.regions, plain: plain}
	title := a.name
	if !plain {
		title = titleStyle.Render(title)
	}
	fmt.Fprintf(out, "%s, %d bytes\n\n", title, len(a.data))
	fmt.Fprint(out, d.legend(-1))
	fmt.Fprintln(out)
	fmt.Fprint(out, d.dump(a.data, -1))
}

// callExport instantiates a wasm artifact and calls one export with integer
// arguments.
func callExport(ctx context.Context, bin []byte, name string, args []string) (string, error) {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, bin)
	if err != nil {
		return "", fmt.Errorf("instantiate: %w", err)
	}
	fn := mod.ExportedFunction(name)
	if fn == nil {
		return "", fmt.Errorf("no exported function %q", name)
	}

	params := make([]uint64, len(args))
	for i, s := range args {
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		params[i] = uint64(v)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	return fmt.Sprintf("%s(%v) = %v", name, args, results), nil
}
