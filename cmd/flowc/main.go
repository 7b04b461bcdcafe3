package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/driver"
)

// VERSION is populated via build flags when packaging release binaries.
var VERSION = "SELFBUILD"

// logFatal is a variable to allow mocking log.Fatal in tests. This
// indirection enables test code to intercept a fatal exit path without
// actually terminating the test process.
var logFatal = log.Fatalf

// noDepthLimit is handed to config.New for the width-only tool:
// internal/width never consults cfg.Depth, so any value config.New accepts
// works. The constant just documents that this tool has no depth flag to
// take it from.
const noDepthLimit = 1 << 30

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app := cli.NewApp()
	app.Name = "flowc"
	app.Usage = "lower a Flo netlist to word-legal operations"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "target word width W in bits",
		},
		cli.StringFlag{
			Name:  "input",
			Usage: "path to the input netlist",
		},
		cli.StringFlag{
			Name:  "output",
			Usage: "path to write the lowered netlist",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fail(err)
	}
}

func run(c *cli.Context) error {
	width := c.Int("width")
	inputPath := c.String("input")
	outputPath := c.String("output")

	if width == 0 || inputPath == "" || outputPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("flowc requires --width, --input, and --output")
	}

	cfg, err := config.New(width, noDepthLimit, config.CATDOnChain)
	if err != nil {
		return errors.Wrap(err, "building lowering configuration")
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "opening input netlist")
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "creating output netlist")
	}
	defer out.Close()

	return driver.RunWidthOnly(cfg, in, out)
}

// fail reports err with its pkg/errors stack trace when present and exits
// non-zero, through the logFatal indirection so tests can intercept it
// without terminating the test binary.
func fail(err error) {
	logFatal("%+v\n", err)
}
