package main

import (
	"github.com/spf13/cobra"

	"github.com/arb33/multipart-form-decoder/cmd/mpdecode/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
