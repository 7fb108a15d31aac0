// Command catalogctl manages products on a running catalog server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"katalog/internal/models"
	"katalog/pkg/catalogclient"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "manage products on a catalog server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "catalog server base URL",
				Value:   "http://localhost:5000",
				EnvVars: []string{"CATALOG_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request timeout",
				Value: 10 * time.Second,
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
		},
	}
}

func client(c *cli.Context) *catalogclient.Client {
	return catalogclient.New(c.String("server")).WithTimeout(c.Duration("timeout"))
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.New("exactly one product ID is required")
	}
	return c.Args().First(), nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list one page of products",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: models.DefaultPage},
			&cli.IntFlag{Name: "limit", Value: models.DefaultLimit},
			&cli.StringFlag{Name: "sort-by", Usage: "product field to sort by"},
			&cli.StringFlag{Name: "order", Usage: "asc or desc"},
			&cli.Float64Flag{Name: "min-price"},
			&cli.Float64Flag{Name: "max-price"},
			&cli.StringSliceFlag{Name: "category", Usage: "category to include (repeatable)"},
			&cli.BoolFlag{Name: "available", Usage: "only products in stock"},
		},
		Action: func(c *cli.Context) error {
			q := catalogclient.Query{
				Page:   c.Int("page"),
				Limit:  c.Int("limit"),
				SortBy: c.String("sort-by"),
				Order:  c.String("order"),
			}
			if c.IsSet("min-price") {
				v := c.Float64("min-price")
				q.MinPrice = &v
			}
			if c.IsSet("max-price") {
				v := c.Float64("max-price")
				q.MaxPrice = &v
			}
			q.Category = strings.Join(c.StringSlice("category"), ",")
			if c.Bool("available") {
				v := true
				q.Available = &v
			}

			page, err := client(c).List(q)
			if err != nil {
				return err
			}
			return printJSON(c, page)
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show a single product",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			product, err := client(c).Get(id)
			if err != nil {
				return err
			}
			return printJSON(c, product)
		},
	}
}

func productFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.Float64Flag{Name: "price"},
		&cli.StringFlag{Name: "description"},
		&cli.IntFlag{Name: "quantity"},
		&cli.StringFlag{Name: "image", Usage: "image URL"},
		&cli.StringFlag{Name: "category"},
	}
}

// applyFlags overwrites the fields of in whose flags were given.
func applyFlags(c *cli.Context, in *models.ProductInput) {
	if c.IsSet("name") {
		in.Name = c.String("name")
	}
	if c.IsSet("price") {
		in.Price = c.Float64("price")
	}
	if c.IsSet("description") {
		in.Description = c.String("description")
	}
	if c.IsSet("quantity") {
		in.Quantity = c.Int("quantity")
	}
	if c.IsSet("image") {
		in.Image = c.String("image")
	}
	if c.IsSet("category") {
		in.Category = c.String("category")
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create a product",
		Flags: productFlags(),
		Action: func(c *cli.Context) error {
			var input models.ProductInput
			applyFlags(c, &input)
			product, err := client(c).Create(input)
			if err != nil {
				return err
			}
			return printJSON(c, product)
		},
	}
}

// The server replaces every field on update, so flags are applied on top of
// the current record.
func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of a product",
		ArgsUsage: "<id>",
		Flags:     productFlags(),
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			api := client(c)
			current, err := api.Get(id)
			if err != nil {
				return err
			}
			input := current.Input()
			applyFlags(c, &input)
			product, err := api.Update(id, input)
			if err != nil {
				return err
			}
			return printJSON(c, product)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a product",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			if err := client(c).Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Deleted product %s\n", id)
			return nil
		},
	}
}
