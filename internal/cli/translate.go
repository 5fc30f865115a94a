package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/markup"
)

func newTranslateCmd() *cobra.Command {
	var (
		scale  float64
		legacy bool
	)
	cmd := &cobra.Command{
		Use:   "translate [FILE]",
		Short: "Convert editor HTML into span markup",
		Long:  "Reads HTML from FILE or stdin, prints the markup and reports skipped regions on stderr.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("无法打开 %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			src, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("读取输入失败: %w", err)
			}
			opts := []markup.Option{markup.WithRenderScale(scale)}
			if legacy {
				opts = append(opts, markup.WithLegacyRules())
			}
			out, diags := markup.Translate(string(src), opts...)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1, "render scale applied to font sizes")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "inject the family only when the color is absent")
	return cmd
}
