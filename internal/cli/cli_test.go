package cli_test

import (
	"testing"

	"github.com/mna/ippvm/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		desc string
		cmd  cli.Cmd
		args []string
		err  string
	}{
		{"help alone is fine", cli.Cmd{Help: true}, nil, ""},
		{
			desc: "help combined with another flag",
			cmd:  cli.Cmd{Help: true, Source: "p.xml"},
			args: []string{"--help", "--source", "p.xml"},
			err:  "--help is only allowed alone",
		},
		{"missing source and input", cli.Cmd{}, nil, "at least one of --source or --input is required"},
		{"input alone satisfies the requirement", cli.Cmd{Input: "in.txt"}, nil, ""},
		{
			desc: "stats without a statistic flag",
			cmd:  cli.Cmd{Source: "p.xml", Stats: "out.txt"},
			err:  "requires at least one of",
		},
		{
			desc: "statistic flag without stats file",
			cmd:  cli.Cmd{Source: "p.xml"},
			args: []string{"--source", "p.xml", "--insts"},
			err:  "require --stats",
		},
		{
			desc: "source with stats and a flag",
			cmd:  cli.Cmd{Source: "p.xml", Stats: "out.txt"},
			args: []string{"--source", "p.xml", "--stats", "out.txt", "--insts"},
			err:  "",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cmd := c.cmd
			cmd.SetArgs(c.args)
			err := cmd.Validate()
			if c.err == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
		})
	}
}
