package main

import (
	"encoding/json"
	"fmt"

	"blogbot/config"
	"blogbot/deduplication"

	cli "github.com/urfave/cli/v2"
)

var similarityCmd = &cli.Command{
	Name:      "similarity",
	Usage:     "score two titles the way the duplicate guard does",
	ArgsUsage: "<title> <title>",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "threshold",
			Value: config.DefaultSimilarityThreshold,
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return cli.Exit("similarity takes exactly two titles", 2)
		}
		a, b := cctx.Args().Get(0), cctx.Args().Get(1)
		threshold := cctx.Float64("threshold")

		out, err := json.MarshalIndent(struct {
			Similarity float64 `json:"similarity"`
			Duplicate  bool    `json:"duplicate"`
			Threshold  float64 `json:"threshold"`
		}{
			Similarity: deduplication.Similarity(a, b),
			Duplicate:  deduplication.IsDuplicate(a, []string{b}, threshold),
			Threshold:  threshold,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, string(out))
		return nil
	},
}
