package main

import (
	"flag"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func ingestFlagsForTest() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Required: true},
		&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}, Required: true},
		&cli.StringFlag{Name: "token", Required: true},
		&cli.IntFlag{Name: "batch-size", Value: 60},
		&cli.IntFlag{Name: "process-batch-size", Value: 15},
	}
}

func TestIngestCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "dora",
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Flags: ingestFlagsForTest(),
				Action: func(c *cli.Context) error {
					return nil
				},
			},
		},
	}

	t.Run("folder is required", func(t *testing.T) {
		err := app.Run([]string{"dora", "ingest", "--tenant", "u1", "--token", "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "folder")
	})

	t.Run("tenant is required", func(t *testing.T) {
		err := app.Run([]string{"dora", "ingest", "--folder", "abc", "--token", "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenant")
	})

	t.Run("batch sizes have defaults", func(t *testing.T) {
		var batch, inner int
		app := &cli.App{
			Name: "dora",
			Commands: []*cli.Command{
				{
					Name:  "ingest",
					Flags: ingestFlagsForTest(),
					Action: func(c *cli.Context) error {
						batch = c.Int("batch-size")
						inner = c.Int("process-batch-size")
						return nil
					},
				},
			},
		}
		err := app.Run([]string{"dora", "ingest", "--folder", "abc", "--tenant", "u1", "--token", "x"})
		require.NoError(t, err)
		assert.Equal(t, 60, batch)
		assert.Equal(t, 15, inner)
	})
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"INFO", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %q", tt.level), func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.String("log-level", tt.level, "")
			ctx := cli.NewContext(cli.NewApp(), set, nil)

			err := setupLogger(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
