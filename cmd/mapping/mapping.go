// Package mapping inspects and initializes the budget category mapping table.
package mapping

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/budget"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/report"
	"fjacquet/up-budget/internal/store"

	"github.com/spf13/cobra"
)

var force bool

// Cmd represents the mapping command
var Cmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show or initialize the budget category mapping table",
	Long: `The mapping table links each recommendation category (Housing, Food, ...) to
the Up category names that count towards it. It is read from budget.mapping_file;
the built-in table is used when that file does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the mapping table in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in mapping table to the mapping file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(root.Container(), cmd.OutOrStdout(), force)
	},
}

func init() {
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing mapping file")
	Cmd.AddCommand(showCmd, initCmd)
}

// Effective returns the loaded table, or the built-in one when no file exists.
func Effective(s *store.MappingStore) (map[string][]string, bool, error) {
	table, err := s.LoadMappings()
	if err != nil {
		return nil, false, err
	}
	if table == nil {
		return budget.DefaultMappings(), false, nil
	}
	return table, true, nil
}

// RunShow prints the effective mapping table.
func RunShow(c *container.Container, out io.Writer, format string) error {
	table, fromFile, err := Effective(c.GetMappingStore())
	if err != nil {
		return err
	}

	if format != report.FormatText {
		return c.GetReportGenerator().Render(out, store.MappingFile{Mappings: table}, format)
	}

	if fromFile {
		fmt.Fprintf(out, "Mappings from %s\n", c.GetMappingStore().File)
	} else {
		fmt.Fprintln(out, "Built-in mappings")
	}
	for _, category := range store.Categories(table) {
		fmt.Fprintf(out, "  %s: %s\n", category, strings.Join(table[category], ", "))
	}
	fmt.Fprintf(out, "Match order: %s\n", strings.Join(c.GetMatcher().Strategies(), ", "))
	return nil
}

// RunInit writes the built-in table. An existing file is kept unless force
// is set.
func RunInit(c *container.Container, out io.Writer, force bool) error {
	s := c.GetMappingStore()
	if existing, err := s.FindConfigFile(s.File); err == nil && !force {
		return fmt.Errorf("mapping file %s already exists (use --force to overwrite)", existing)
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	path, err := s.SaveMappings(budget.DefaultMappings())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Wrote %d budget mappings to %s\n", len(budget.DefaultMappings()), path)
	return err
}
