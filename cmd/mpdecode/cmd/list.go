package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arb33/multipart-form-decoder/internal/console"
	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header"
	"github.com/arb33/multipart-form-decoder/message/walker"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list capture",
		Short: "List the parts of a capture without saving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, args[0])
		},
	}
}

func runList(cmd *cobra.Command, opts *options, path string) error {
	r, err := opts.start(cmd, path)
	if err != nil {
		return err
	}
	defer r.Close()

	var parts []console.Listing
	var pw walker.PartWalker = func(i int, h header.Header, d *message.Decoder) error {
		n, err := d.DiscardBodyData()
		if err != nil {
			return err
		}

		ct, _ := h.ContentType()
		parts = append(parts, console.Listing{
			Index:       i,
			Field:       h.FieldName(),
			Filename:    h.Filename(),
			ContentType: ct,
			Size:        n,
		})
		return nil
	}

	_, err = pw.Walk(r.decoder)

	// whatever was found before a failure is still worth showing
	console.New(cmd.OutOrStdout(), r.cfg.Output.NoColor).List(parts)

	return err
}
