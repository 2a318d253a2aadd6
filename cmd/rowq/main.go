// Command rowq runs where/select/join/order/group queries over JSON or YAML
// row files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "rowq",
		Usage: "Query ordered rows loaded from JSON or YAML",
		Description: `rowq loads a list of rows and runs an in-memory query over them.

Stages run in a fixed order: join, where, filter, order, offset, limit,
group, then either an aggregate, a select or the rows themselves.

Example:
  rowq query --file people.yaml --where '$age >= {{min}}' --var min=18 \
    --order age --desc --select 'name, age'`,
		Commands: []*cli.Command{
			QueryCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
