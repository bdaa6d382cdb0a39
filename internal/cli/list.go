package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"menucatalog/internal/catalog"
	"menucatalog/internal/output"
	"menucatalog/ui/console"
)

var (
	listSearch   string
	listCategory string
	listPlain    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the menu without the interactive browser",
	Long: `Print the menu grouped by category.

--category narrows to one category and --search matches name, category and
description. When both are given the search wins, as in the browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		out := console.Printer{
			W:     cmd.OutOrStdout(),
			Color: !listPlain && isatty.IsTerminal(os.Stdout.Fd()),
		}

		if err := a.store.Refresh(ctx, a.src); err != nil {
			out.PrintError(err.Error())
			return fmt.Errorf("load catalog: %w", err)
		}
		a.resolveImages(ctx)

		view := catalog.NewViewState()
		if listCategory != "" {
			view = view.SelectCategory(listCategory)
		}
		if listSearch != "" {
			view = view.Search(listSearch)
		}
		snap := a.store.Snapshot()
		cards := output.BuildCards(view.Project(snap.MenuItems), a.prices, a.imageFunc(), false)
		out.Print(cards)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "text to search for")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "category to show")
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "disable colors")
}
