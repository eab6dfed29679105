package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wasmbridge/greet-bridge/greeting"
	"github.com/wasmbridge/greet-bridge/internal/guestgen"
	"github.com/wasmbridge/greet-bridge/runtime"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to guest wasm file (default: embedded demo guest)")
		funcName    = flag.String("func", "greet", "Guest export to call")
		count       = flag.Int("n", 1, "Number of calls")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose bridge logging")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *funcName, *count, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadGuest(wasmFile string) ([]byte, string, error) {
	if wasmFile == "" {
		return guestgen.Demo(), "embedded demo guest", nil
	}
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, wasmFile, nil
}

func run(wasmFile, funcName string, count int, verbose bool) error {
	ctx := context.Background()

	var opts []runtime.Option
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		opts = append(opts, runtime.WithLogger(logger))
	}

	guest, source, err := loadGuest(wasmFile)
	if err != nil {
		return err
	}

	rt, err := runtime.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	if err := rt.RegisterHost(greeting.New()); err != nil {
		return fmt.Errorf("register host: %w", err)
	}

	mod, err := rt.Load(ctx, guest)
	if err != nil {
		return fmt.Errorf("load guest: %w", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)

	fmt.Printf("Guest: %s\n", source)

	var first string
	for i := 0; i < count; i++ {
		msg, err := inst.CallString(ctx, funcName)
		if err != nil {
			return fmt.Errorf("call %s: %w", funcName, err)
		}
		if i == 0 {
			first = msg
			fmt.Printf("%s() = %q\n", funcName, msg)
			continue
		}
		if msg != first {
			return fmt.Errorf("call %d returned %q, first call returned %q", i+1, msg, first)
		}
	}
	if count > 1 {
		fmt.Printf("%d calls, all results identical\n", count)
	}

	return nil
}
