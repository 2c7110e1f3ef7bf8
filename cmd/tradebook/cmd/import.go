package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import trades from a broker CSV export",
	Long: `Import trades from a delimited file. The delimiter is sniffed from
the header line, and columns are matched to trade fields by name.
Override any guess with --map.

Use --inspect to see the columns and the suggested mapping, and
--dry-run to validate rows without writing anything.

Examples:
  tradebook import fills.csv --inspect
  tradebook import fills.csv --map symbol=Ticker --map quantity=Shares
  tradebook import fills.csv --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importFlags struct {
	mappings       []string
	skipDuplicates bool
	dryRun         bool
	inspect        bool
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringArrayVar(&importFlags.mappings, "map", nil, "field=column mapping override (repeatable)")
	importCmd.Flags().BoolVar(&importFlags.skipDuplicates, "skip-duplicates", true, "skip rows matching an existing date+symbol+entry")
	importCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "validate rows without writing to the journal")
	importCmd.Flags().BoolVar(&importFlags.inspect, "inspect", false, "show columns and suggested mapping, then stop")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := importer.ReadTable(f)
	if err != nil {
		return err
	}

	if importFlags.inspect {
		printInspection(importer.Inspect(table))
		return nil
	}

	mapping := importer.SuggestMapping(table.Columns)
	for _, m := range importFlags.mappings {
		field, column, ok := strings.Cut(m, "=")
		if !ok {
			return fmt.Errorf("bad --map %q, want field=column", m)
		}
		mapping[field] = column
	}

	if importFlags.dryRun {
		p := importer.PreviewRows(table, mapping)
		fmt.Printf("%d row(s) would import, %d row(s) have errors\n", len(p.Valid), len(p.Errors))
		printRowErrors(p.Errors)
		return nil
	}

	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}
	existing, err := mgr.ListAll()
	if err != nil {
		return err
	}

	res, err := importer.ImportRows(table, mapping, mgr, existing, importFlags.skipDuplicates)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d trade(s), skipped %d duplicate(s), %d row(s) failed\n",
		len(res.Created), len(res.Skipped), len(res.Failed))
	printRowErrors(res.Failed)
	if len(res.Created) == 0 {
		return nil
	}
	return maybeBackup(cfg)
}

func printInspection(ins importer.Inspection) {
	fmt.Printf("Columns: %s\n", strings.Join(ins.Columns, ", "))

	fields := make([]string, 0, len(ins.Suggested))
	for f := range ins.Suggested {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Println("Suggested mapping:")
	for _, f := range fields {
		fmt.Printf("  %s <- %s\n", f, ins.Suggested[f])
	}

	if len(ins.Sample) > 0 {
		fmt.Printf("Sample of %d row(s):\n", len(ins.Sample))
		for _, row := range ins.Sample {
			parts := make([]string, 0, len(ins.Columns))
			for _, c := range ins.Columns {
				parts = append(parts, row[c])
			}
			fmt.Printf("  %s\n", strings.Join(parts, " | "))
		}
	}
}

func printRowErrors(rows []importer.RowErrors) {
	for _, re := range rows {
		for _, fe := range re.Errors {
			fmt.Printf("  row %d: %s: %s\n", re.Row, fe.Field, fe.Message)
		}
	}
}
