// jsonapi-factory normalizes nested object graphs into JSON:API documents.
package main

import (
	"os"

	"github.com/ayangd/jsonapi-factory/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
