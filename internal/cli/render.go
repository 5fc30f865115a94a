package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var f jobFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one job to a PNG file",
		Example: `  textfx render --text "Hello" --width 400 --height 120 -o hello.png
  textfx render --job title.yaml`,
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
			res, err := renderJob(cmd.Context(), r, cfg, job)
			if err != nil {
				return err
			}
			defer res.Release()
			if err := writePNG(job.Output, res, job.StraightAlpha); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s（%dx%d，排版 %dx%d）\n",
				job.Output, res.SurfaceWidth, res.SurfaceHeight, res.LayoutWidth, res.LayoutHeight)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
