// Command fvmrun loads raw instruction bytecode and executes it against a
// fresh interpreter, printing the resulting receipt log. It exists for
// exercising and debugging the instruction set outside of a full node:
// point it at a file of packed 32-bit instructions and it runs them as
// either a top-level script or a predicate.
//
// Usage:
//
//	fvmrun -code path/to/program.fvm [flags]
//
// Flags:
//
//	-code        Path to a file of packed instruction words (required)
//	-predicate   Run as a predicate instead of a script
//	-data        Path to a file of predicate data (predicate mode only)
//	-gas         Gas limit for script mode (default: 1000000)
//	-height      Block height visible to BHEI (default: 0)
//	-timestamp   Block timestamp visible to TIME (default: 0)
//	-loglevel    Log verbosity: debug, info, warn, error (default: "info")
//	-version     Print version and exit
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fuelvm-go/fuelvm/ecal"
	"github.com/fuelvm-go/fuelvm/internal/logger"
	"github.com/fuelvm-go/fuelvm/predicate"
	"github.com/fuelvm-go/fuelvm/storage"
	"github.com/fuelvm-go/fuelvm/tx"
	"github.com/fuelvm-go/fuelvm/types"
	"github.com/fuelvm-go/fuelvm/vm"
)

var version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("fvmrun", flag.ContinueOnError)

	codePath := fs.String("code", "", "path to a file of packed instruction words")
	dataPath := fs.String("data", "", "path to a file of predicate data")
	asPredicate := fs.Bool("predicate", false, "run as a predicate instead of a script")
	gasLimit := fs.Uint64("gas", 1_000_000, "gas limit for script mode")
	height := fs.Uint64("height", 0, "block height visible to BHEI")
	timestamp := fs.Uint64("timestamp", 0, "block timestamp visible to TIME")
	logLevel := fs.String("loglevel", "info", "log verbosity (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(out, "fvmrun %s\n", version)
		return 0
	}

	logger.SetDefault(logger.New(parseLevel(*logLevel)))

	if *codePath == "" {
		fmt.Fprintln(os.Stderr, "fvmrun: -code is required")
		return 2
	}

	code, err := loadBytes(*codePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fvmrun: reading code: %v\n", err)
		return 1
	}

	var data []byte
	if *dataPath != "" {
		data, err = loadBytes(*dataPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fvmrun: reading data: %v\n", err)
			return 1
		}
	}

	params := tx.DefaultParameters()
	checked := &tx.CheckedTransaction{Tx: &tx.Transaction{GasLimit: types.Word(*gasLimit)}}

	if *asPredicate {
		if err := predicate.Verify(code, data, checked, params); err != nil {
			fmt.Fprintf(out, "predicate rejected: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "predicate accepted")
		return 0
	}

	machine := newScriptMachine(checked, params, types.Word(*height), types.Word(*timestamp))
	machine.LoadCode(code)

	receipts, err := machine.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fvmrun: %v\n", err)
		return 1
	}
	for i, r := range receipts {
		fmt.Fprintf(out, "receipt[%d]: kind=%d ra=%d rb=%d gas_used=%d\n", i, r.Kind, r.RA, r.RB, r.GasUsed)
	}
	for i, o := range checked.Tx.Outputs {
		if o.Kind == tx.OutputKindChange || o.Kind == tx.OutputKindVariable {
			fmt.Fprintf(out, "output[%d]: kind=%d asset=%x amount=%d\n", i, o.Kind, o.AssetId, o.Amount)
		}
	}
	return 0
}

func newScriptMachine(checked *tx.CheckedTransaction, params tx.Parameters, height, timestamp types.Word) *vm.Interpreter {
	m := vm.New(checked, storage.NewMemory(), params)
	m.SetBlockContext(height, timestamp)
	m.SetECALHandler(ecal.Builtins().Handler())
	return m
}

// loadBytes reads a program or data file. Text files of hex digits (with or
// without whitespace) are decoded as hex; anything else is treated as the
// raw bytes to load directly, which lets the same flag accept either an
// assembled binary or a hand-written hex dump.
func loadBytes(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if decoded, ok := tryDecodeHex(raw); ok {
		return decoded, nil
	}
	return raw, nil
}

func tryDecodeHex(raw []byte) ([]byte, bool) {
	clean := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case ' ', '\n', '\r', '\t':
			continue
		}
		clean = append(clean, b)
	}
	if len(clean) == 0 || len(clean)%2 != 0 {
		return nil, false
	}
	decoded, err := hex.DecodeString(string(clean))
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
