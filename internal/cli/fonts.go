package cli

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barh/pkg/fonts"
)

func (c *CLI) fontsCommand() *cobra.Command {
	var resolve string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List installed fonts or resolve a font family",
		Long: `Fonts lists the font files barh can load. With --resolve it shows which file
a family name maps to and the metrics the layout would use for it.

Charts fall back to the embedded Go font when no family is configured.`,
		Example: `  barh fonts
  barh fonts --resolve "DejaVu Sans"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolve != "" {
				return resolveFont(resolve)
			}
			listFonts()
			return nil
		},
	}

	cmd.Flags().StringVar(&resolve, "resolve", "", "show the file and metrics used for a family")

	return cmd
}

func listFonts() {
	paths := fonts.List()
	if len(paths) == 0 {
		printWarning("no font files found; charts use the embedded %s font", fonts.DefaultFamily)
		return
	}
	for _, p := range paths {
		printFile(p)
	}
	printInfo("%s fonts", StyleNumber.Render(strconv.Itoa(len(paths))))
}

func resolveFont(family string) error {
	path, err := fonts.Find(family)
	if err != nil {
		printInfo("run %s to list installed fonts", StyleValue.Render(appName+" fonts"))
		return err
	}
	m, err := fonts.Load(path, fonts.DefaultSize)
	if err != nil {
		return err
	}
	defer m.Close()

	printKeyValue("Family", m.Family())
	printKeyValue("File", filepath.Clean(path))
	printKeyValue("Line height", strconv.Itoa(m.LineHeight()))
	printKeyValue("Full height", strconv.Itoa(m.FullHeight()))
	return nil
}
