// Package cli implements the textfx command line.
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/internal/logging"
	"github.com/ByLCY/textfx/renderer"
	canvasrenderer "github.com/ByLCY/textfx/renderer/canvas"
	ggrenderer "github.com/ByLCY/textfx/renderer/gg"
)

var engines = map[string]func() renderer.Engine{
	"canvas": func() renderer.Engine { return canvasrenderer.New() },
	"gg":     func() renderer.Engine { return ggrenderer.New() },
}

// engineByName 返回指定名称的后端，空名称使用 canvas。
func engineByName(name string) (renderer.Engine, error) {
	if name == "" {
		name = "canvas"
	}
	mk, ok := engines[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(engines))
		for n := range engines {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("未知渲染引擎 %q（可选: %s）", name, strings.Join(names, ", "))
	}
	return mk(), nil
}

// NewRootCmd 构建命令树。
func NewRootCmd() *cobra.Command {
	var verbosity int
	root := &cobra.Command{
		Use:   "textfx",
		Short: "Render styled text and subtitles into RGBA images",
		Long: `textfx lays out plain text, span markup or editor HTML with the built-in or
system fonts and rasterizes it into RGBA frames. It can also read SRT files and
render one frame per subtitle.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	root.AddCommand(
		newRenderCmd(),
		newRoDCmd(),
		newSRTCmd(),
		newFontsCmd(),
		newTranslateCmd(),
	)
	return root
}

// Execute 运行命令行。
func Execute() error {
	return NewRootCmd().Execute()
}
