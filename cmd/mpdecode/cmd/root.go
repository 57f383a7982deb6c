package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arb33/multipart-form-decoder/extract"
	"github.com/arb33/multipart-form-decoder/internal/console"
	"github.com/arb33/multipart-form-decoder/output"
)

const longHelp = `Extracts contents of a packet trace of a multipart/form-data HTTP POST.

The capture must begin with the boundary line of the request body, unless the
boundary is given with --boundary or --content-type. Each part's
Content-Disposition is printed. The values of ordinary form fields are printed
after it, and uploaded files are written to the output files in the order
they are found. Every output file is overwritten. Uploads beyond the last
output file are skipped with a warning.

A capture file named "list" is taken for the list command. Run
"mpdecode -- list" or "mpdecode ./list" to decode it.`

// NewRootCmd builds the mpdecode command with its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mpdecode capture [output...]",
		Short: "Extract form fields and uploaded files from a captured multipart/form-data body",
		Long:  longHelp,
		Example: `  mpdecode post.raw
  mpdecode post.raw photo.jpg notes.txt
  mpdecode --content-type 'multipart/form-data; boundary=XyZ' post.raw out.bin`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, opts, args)
		},
	}

	opts.addFlags(rootCmd)
	rootCmd.AddCommand(newListCmd(opts))

	return rootCmd
}

// Execute runs the mpdecode command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func runDecode(cmd *cobra.Command, opts *options, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	r, err := opts.start(cmd, args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	printer := console.New(cmd.OutOrStdout(), r.cfg.Output.NoColor)
	session := extract.New(r.decoder, output.NewTargets(args[1:], nil), printer,
		extract.WithLogger(r.log))

	sum, err := session.Run()
	if err != nil {
		return err
	}

	if r.cfg.Output.Summary {
		console.New(cmd.ErrOrStderr(), r.cfg.Output.NoColor).Summary(sum)
	}

	return nil
}
