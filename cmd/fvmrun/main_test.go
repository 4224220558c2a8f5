package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fuelvm-go/fuelvm/asm"
	"github.com/fuelvm-go/fuelvm/types"
)

func assembleFile(t *testing.T, dir, name string, ins ...asm.Instruction) string {
	t.Helper()
	var buf []byte
	for _, in := range ins {
		w := in.Encode()
		buf = append(buf, w[:]...)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunScriptPrintsReceipt(t *testing.T) {
	dir := t.TempDir()
	code := assembleFile(t, dir, "script.fvm",
		asm.Instruction{Op: asm.ADDI, RA: 16, RB: types.RegZero, Imm: 7},
		asm.Instruction{Op: asm.RET, RA: 16},
	)

	var out bytes.Buffer
	if code := run([]string{"-code", code}, &out); code != 0 {
		t.Fatalf("run() = %d, want 0; output: %s", code, out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("receipt[0]")) {
		t.Fatalf("expected a receipt line, got %q", out.String())
	}
}

func TestRunPredicateAccepted(t *testing.T) {
	dir := t.TempDir()
	code := assembleFile(t, dir, "pred.fvm",
		asm.Instruction{Op: asm.ADDI, RA: 16, RB: types.RegZero, Imm: 1},
		asm.Instruction{Op: asm.RET, RA: 16},
	)

	var out bytes.Buffer
	if code := run([]string{"-code", code, "-predicate"}, &out); code != 0 {
		t.Fatalf("run() = %d, want 0; output: %s", code, out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("accepted")) {
		t.Fatalf("expected acceptance message, got %q", out.String())
	}
}

func TestRunPredicateRejected(t *testing.T) {
	dir := t.TempDir()
	code := assembleFile(t, dir, "pred.fvm",
		asm.Instruction{Op: asm.RET, RA: types.RegZero},
	)

	var out bytes.Buffer
	if code := run([]string{"-code", code, "-predicate"}, &out); code != 1 {
		t.Fatalf("run() = %d, want 1; output: %s", code, out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("rejected")) {
		t.Fatalf("expected rejection message, got %q", out.String())
	}
}

func TestRunMissingCodeFlag(t *testing.T) {
	var out bytes.Buffer
	if code := run(nil, &out); code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}

func TestRunVersionFlag(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"-version"}, &out); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	if !bytes.Contains(out.Bytes(), []byte("fvmrun")) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRunMissingCodeFile(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"-code", "/nonexistent/path.fvm"}, &out); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
}
