package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func newTestContext(t *testing.T, width, depth int, input, output string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("flowcd", flag.ContinueOnError)
	set.Int("width", width, "")
	set.Int("depth", depth, "")
	set.String("input", input, "")
	set.String("output", output, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestRunRejectsMissingFlags(t *testing.T) {
	c := newTestContext(t, 0, 0, "", "")
	if err := run(c); err == nil {
		t.Fatal("expected an error with no flags set")
	}
}

func TestRunLowersAndSplitsAFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.flo")
	out := filepath.Join(dir, "out.flo")

	input := "mem0 = mem/8 1024\n" +
		"value = wire/8\n" +
		"addr = wire/10\n" +
		"en = wire/1\n" +
		"mem0 = WR 8 en, addr, value\n"
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := newTestContext(t, 32, 256, in, out)
	if err := run(c); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "mem0.c0"; !strings.Contains(string(got), want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
}

func TestRunReportsAnUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	c := newTestContext(t, 32, 256, filepath.Join(dir, "missing.flo"), filepath.Join(dir, "out.flo"))
	if err := run(c); err == nil {
		t.Fatal("expected an error opening a missing input file")
	}
}

func TestFailExitsThroughLogFatal(t *testing.T) {
	oldLogFatal := logFatal
	defer func() { logFatal = oldLogFatal }()

	called := false
	logFatal = func(format string, v ...interface{}) { called = true }

	fail(os.ErrClosed)

	if !called {
		t.Error("expected fail to call logFatal")
	}
}
