// Command tgch is a small demo CLI over the tgch library: it opens a
// disk-backed index at a given path and exposes add/get/search/remove/
// commit/save/load as subcommands, for manually exercising the library
// rather than as a production server.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/tgch/internal/config"
	"github.com/standardbeagle/tgch/internal/document"
	"github.com/standardbeagle/tgch/internal/search"
	"github.com/standardbeagle/tgch/internal/store"
	"github.com/standardbeagle/tgch/internal/version"
)

func openIndex(c *cli.Context) (*store.Index, error) {
	cfg := config.Default()
	cfg.StorageType = config.StorageType(c.String("storage-type"))
	return store.Open(c.String("path"), cfg)
}

func main() {
	app := &cli.App{
		Name:    "tgch",
		Usage:   "typo-tolerant full-text search, from the command line",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "index directory",
				Value: "./tgch-data",
			},
			&cli.StringFlag{
				Name:  "storage-type",
				Usage: "memory, disk-a (bbolt), disk-b (badger), disk-c (pebble)",
				Value: "disk-a",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add a document with a single text field",
				ArgsUsage: "<id> <text>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.Exit("usage: tgch add <id> <text>", 1)
					}
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()

					d := document.New(c.Args().Get(0)).WithField("text", document.Text(c.Args().Get(1)))
					if err := ix.AddDocument(d); err != nil {
						return err
					}
					return ix.Commit()
				},
			},
			{
				Name:      "get",
				Usage:     "print a document's fields",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: tgch get <id>", 1)
					}
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()

					d, ok, err := ix.GetDocument(c.Args().Get(0))
					if err != nil {
						return err
					}
					if !ok {
						return cli.Exit("not found", 1)
					}
					for _, f := range d.Fields() {
						fmt.Printf("%s: %s\n", f.Name, f.Value.String())
					}
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "run a typo-tolerant search",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-distance", Value: 2},
					&cli.Float64Flag{Name: "threshold", Value: 0.0},
					&cli.IntFlag{Name: "limit", Value: 10},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: tgch search <query>", 1)
					}
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()

					opts := &search.Options{
						MaxDistance:    c.Int("max-distance"),
						ScoreThreshold: c.Float64("threshold"),
						Limit:          c.Int("limit"),
					}
					results, err := ix.Search(c.Args().Get(0), opts)
					if err != nil {
						return err
					}
					for _, r := range results {
						fmt.Printf("%-20s %.4f\n", r.Document.ID(), r.Score)
					}
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a document",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: tgch remove <id>", 1)
					}
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()

					removed, err := ix.RemoveDocument(c.Args().Get(0))
					if err != nil {
						return err
					}
					if !removed {
						return cli.Exit("not found", 1)
					}
					return ix.Commit()
				},
			},
			{
				Name:  "commit",
				Usage: "commit any pending staged writes",
				Action: func(c *cli.Context) error {
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()
					return ix.Commit()
				},
			},
			{
				Name:      "save",
				Usage:     "write a whole-index snapshot to a file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: tgch save <file>", 1)
					}
					ix, err := openIndex(c)
					if err != nil {
						return err
					}
					defer ix.Close()
					return ix.SaveToFile(c.Args().Get(0))
				},
			},
			{
				Name:      "load",
				Usage:     "write a snapshot file's records into the index (keys absent from the snapshot are kept)",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: tgch load <file>", 1)
					}
					cfg := config.Default()
					cfg.StorageType = config.StorageType(c.String("storage-type"))
					cfg.StoragePath = c.String("path")
					ix, err := store.OpenFile(c.Args().Get(0), cfg)
					if err != nil {
						return err
					}
					return ix.Close()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
