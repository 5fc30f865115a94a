package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/binding"
	"github.com/ByLCY/textfx/render"
	"github.com/ByLCY/textfx/subtitle"
)

func newSRTCmd() *cobra.Command {
	var (
		f        jobFlags
		outDir   string
		template string
	)
	cmd := &cobra.Command{
		Use:   "srt FILE",
		Short: "List subtitle records or render one PNG per record",
		Long: `Without --out-dir the records are listed. With --out-dir every record is
rendered with the job style; the text comes from --template, where ${index},
${start}, ${end}, ${srtStart}, ${srtEnd}, ${duration}, ${text} and ${lines[n]}
refer to the record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := subtitle.ParseFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range doc.Skipped {
				skipped := &render.Error{Kind: render.ErrMalformedSubtitle, Message: fmt.Sprintf("line %d: %s", s.Line, s.Reason)}
				fmt.Fprintln(cmd.ErrOrStderr(), skipped)
			}
			if outDir == "" {
				for i, rec := range doc.Records {
					fmt.Fprintf(out, "%d\t%s --> %s\t%q\n", i+1,
						subtitle.FormatTimestamp(rec.Start), subtitle.FormatTimestamp(rec.End), rec.Text)
				}
				return nil
			}

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
			base := job.Data
			for i, rec := range doc.Records {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				data := binding.SubtitleData(i+1, rec)
				for k, v := range base {
					if _, taken := data[k]; !taken {
						data[k] = v
					}
				}
				job.Text, job.TextFile, job.Data = template, "", data
				res, err := renderJob(cmd.Context(), r, cfg, job)
				if err != nil {
					return fmt.Errorf("第 %d 条字幕: %w", i+1, err)
				}
				path := filepath.Join(outDir, fmt.Sprintf("%04d.png", i+1))
				err = writePNG(path, res, job.StraightAlpha)
				res.Release()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "render every record into this directory")
	cmd.Flags().StringVar(&template, "template", "${text}", "text template for each record")
	return cmd
}
