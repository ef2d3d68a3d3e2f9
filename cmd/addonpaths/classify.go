// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/addonpaths/addonpaths/pkg/modulepath"

	"github.com/spf13/cobra"
)

func newClassifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <module>...",
		Short: "Show how module names are classified",
		Long: `Show how module names are classified.

For each name, prints whether it is a template, a component template or a
test-support module, the resulting kind, and the path used for its
re-exported script candidate.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, arg := range args {
				if i > 0 {
					fmt.Fprintln(app.stdout)
				}
				writeClassification(app.stdout, arg)
			}
			return nil
		},
	}
}

func writeClassification(w io.Writer, name string) {
	module := modulepath.ModuleName(name)

	fmt.Fprintln(w, TitleStyle.Render(name))
	row := func(key string, value any) {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(fmt.Sprintf("%-19s", key+":")), SuccessStyle.Render(fmt.Sprint(value)))
	}
	row("kind", modulepath.Classify(module))
	row("template", modulepath.IsTemplateModule(name))
	row("component template", modulepath.IsComponentTemplateModule(name))
	row("test support", modulepath.IsTestSupportModule(name))
	row("re-export path", modulepath.ReexportModulePath(module))
}
