package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/fontconfig"
)

func newFontsCmd() *cobra.Command {
	var (
		system bool
		dir    string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the available font families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" && file != "" {
				return fmt.Errorf("--dir 与 --file 只能选一个")
			}
			cfg := fontconfig.NewEmpty()
			if system {
				cfg = fontconfig.New()
			}
			extra, isDir := file, false
			if dir != "" {
				extra, isDir = dir, true
			}
			families, err := fontconfig.ListFamilies(cfg, extra, isDir)
			if err != nil {
				return err
			}
			for _, name := range families {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "include system fonts")
	cmd.Flags().StringVar(&dir, "dir", "", "extra font directory")
	cmd.Flags().StringVar(&file, "file", "", "extra font file")
	return cmd
}
