// Package cli implements the command-line surface of the interpreter: flag
// parsing, source/input file handling, and exit code mapping.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/machine"
)

const binName = "ippvm"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source <file>] [--input <file>] [--stats <file> [--insts] [--vars] [--hot]]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source <file>] [<option>...]
       %[1]s -h|--help

Interpreter for IPPcode21 XML-encoded programs.

At least one of --source or --input must be given.

Valid flag options are:
       --source <file>           Path to the IPPcode21 XML source (default:
                                  the interpreter's own stdin).
       --input <file>            Path supplying the program's standard
                                  input (default: the interpreter's own
                                  stdin).
       --stats <file>            Path to write execution statistics to.
                                  Requires at least one of --insts, --vars
                                  or --hot; each requested statistic adds
                                  one line to the file, in the order the
                                  flags were given.
       --insts                   Include the count of executed
                                  instructions in --stats output.
       --vars                    Include the high-water mark of
                                  initialized variables in --stats output.
       --hot                     Include the order of the most frequently
                                  executed instruction in --stats output.
       -h --help                 Show this help and exit.
`, binName)
)

// Cmd is the mainer entry point for the interpreter binary.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help   bool   `flag:"h,help"`
	Source string `flag:"source"`
	Input  string `flag:"input"`
	Stats  string `flag:"stats"`
	Insts  bool   `flag:"insts"`
	Vars   bool   `flag:"vars"`
	Hot    bool   `flag:"hot"`

	// statOrder preserves the order --insts/--vars/--hot were given on the
	// command line, since the stats file lists requested values in that
	// order rather than a fixed one.
	statOrder []string
}

func (c *Cmd) SetArgs(args []string) {
	for _, a := range args {
		switch strings.TrimLeft(a, "-") {
		case "insts":
			c.statOrder = append(c.statOrder, "insts")
		case "vars":
			c.statOrder = append(c.statOrder, "vars")
		case "hot":
			c.statOrder = append(c.statOrder, "hot")
		}
	}
}

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help {
		if c.Source != "" || c.Input != "" || c.Stats != "" || len(c.statOrder) > 0 {
			return fmt.Errorf("--help is only allowed alone")
		}
		return nil
	}
	if c.Source == "" && c.Input == "" {
		return fmt.Errorf("at least one of --source or --input is required")
	}
	if c.Stats != "" && len(c.statOrder) == 0 {
		return fmt.Errorf("--stats requires at least one of --insts, --vars or --hot")
	}
	if c.Stats == "" && len(c.statOrder) > 0 {
		return fmt.Errorf("--insts, --vars and --hot require --stats")
	}
	return nil
}

// Main implements mainer's entry point contract.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: true, EnvPrefix: strings.ToUpper(binName) + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(ipperr.CLI.ExitCode())
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	code, err := c.run(stdio)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.ExitCode(ipperr.ExitCode(err))
	}
	return mainer.ExitCode(code)
}

func (c *Cmd) run(stdio mainer.Stdio) (int, error) {
	src := stdio.Stdin
	if c.Source != "" {
		srcFile, err := os.Open(c.Source)
		if err != nil {
			return 0, ipperr.Wrap(ipperr.IOMissing, err, "cannot open source file %q", c.Source)
		}
		defer srcFile.Close()
		src = srcFile
	}

	prog, err := loader.Load(src)
	if err != nil {
		return 0, err
	}

	stdin := stdio.Stdin
	if c.Input != "" {
		f, err := os.Open(c.Input)
		if err != nil {
			return 0, ipperr.Wrap(ipperr.IOMissing, err, "cannot open input file %q", c.Input)
		}
		defer f.Close()
		stdin = f
	}

	eng := machine.NewEngine(prog, stdin, stdio.Stdout, stdio.Stderr)
	if err := eng.Run(); err != nil {
		return 0, err
	}

	if c.Stats != "" {
		if err := c.writeStats(eng.Stats()); err != nil {
			return 0, err
		}
	}

	return eng.ReturnCode(), nil
}

func (c *Cmd) writeStats(st *machine.Stats) error {
	f, err := os.Create(c.Stats)
	if err != nil {
		return ipperr.Wrap(ipperr.IOWrite, err, "cannot create stats file %q", c.Stats)
	}
	defer f.Close()

	for _, s := range c.statOrder {
		var line string
		switch s {
		case "insts":
			line = fmt.Sprintf("%d", st.Insts)
		case "vars":
			line = fmt.Sprintf("%d", st.MaxVars)
		case "hot":
			line = fmt.Sprintf("%d", st.HotOrder)
		}
		if _, err := fmt.Fprintln(f, line); err != nil {
			return ipperr.Wrap(ipperr.IOWrite, err, "cannot write stats file %q", c.Stats)
		}
	}
	return nil
}
