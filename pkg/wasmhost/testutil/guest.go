// Package testutil builds the calc guest module for tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	calcWasm  []byte
	buildErr  error
)

// CalcModule returns examples/calc compiled for wasip1. The module is built
// once per test binary; the test is skipped when the toolchain cannot build
// it.
func CalcModule(t testing.TB) []byte {
	t.Helper()

	buildOnce.Do(func() {
		calcWasm, buildErr = buildCalc()
	})
	if buildErr != nil {
		t.Skipf("calc guest unavailable: %s", buildErr)
	}

	return calcWasm
}

func buildCalc() ([]byte, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("cannot locate module root")
	}
	root := filepath.Join(filepath.Dir(file), "..", "..", "..")

	dir, err := os.MkdirTemp("", "quadra-calc")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "calc.wasm")
	cmd := exec.Command("go", "build", "-buildmode=c-shared", "-o", out, "./examples/calc")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GOOS=wasip1", "GOARCH=wasm")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, stderr.String())
	}

	return os.ReadFile(out)
}
