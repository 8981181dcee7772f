package main

import (
	"os"

	"peasydeal-link-converter/cmd/convert/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
