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

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app := cli.NewApp()
	app.Name = "flowcd"
	app.Usage = "lower a Flo netlist to word- and depth-legal operations"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "target word width W in bits",
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "target bank depth D in addresses",
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
	depth := c.Int("depth")
	inputPath := c.String("input")
	outputPath := c.String("output")

	if width == 0 || depth == 0 || inputPath == "" || outputPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("flowcd requires --width, --depth, --input, and --output")
	}

	cfg, err := config.New(width, depth, config.CATDOnChainExceptWR)
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

	return driver.Run(cfg, in, out)
}

// fail reports err with its pkg/errors stack trace when present and exits
// non-zero, through the logFatal indirection so tests can intercept it
// without terminating the test binary.
func fail(err error) {
	logFatal("%+v\n", err)
}
