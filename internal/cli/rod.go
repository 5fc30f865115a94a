package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/render"
)

func newRoDCmd() *cobra.Command {
	var (
		f                     jobFlags
		autoSize              bool
		hostWidth, hostHeight int
	)
	cmd := &cobra.Command{
		Use:   "rod",
		Short: "Print the region of definition of a job",
		Long: `Prints "WIDTHxHEIGHT". With --auto-size and a zero canvas width or height the
text is measured on a surface of the host size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := f.load(cmd)
			if err != nil {
				return err
			}
			cfg, err := fontConfig(job)
			if err != nil {
				return err
			}
			r, err := newRenderer(job, f.dump)
			if err != nil {
				return err
			}
			text, err := job.ResolveText()
			if err != nil {
				return err
			}
			desc, err := job.Descriptor()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("auto-size") {
				desc.AutoSize = autoSize
			}
			rect, ok := r.RegionOfDefinition(cmd.Context(),
				render.Rect{Width: job.Width, Height: job.Height},
				render.Rect{Width: hostWidth, Height: hostHeight},
				cfg, text, desc)
			if !ok {
				return fmt.Errorf("区域为空")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d\n", rect.Width, rect.Height)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&autoSize, "auto-size", false, "measure the text when the canvas size is zero")
	cmd.Flags().IntVar(&hostWidth, "host-width", 1920, "host region width used for measuring")
	cmd.Flags().IntVar(&hostHeight, "host-height", 1080, "host region height used for measuring")
	return cmd
}
