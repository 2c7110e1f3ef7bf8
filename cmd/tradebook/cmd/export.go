package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/query"
	"github.com/rustyeddy/tradebook/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV or a text report",
	Long: `Export trades, narrowed by the same filters as list. The default
output is CSV in the journal's own schema; --summary emits the text
report instead. Output goes to stdout unless --out names a file.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportFlags struct {
	out     string
	summary bool
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportFlags.summary, "summary", false, "emit the text report instead of CSV")
}

func runExport(cmd *cobra.Command, args []string) error {
	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}
	trades, err := mgr.ListAll()
	if err != nil {
		return err
	}
	trades = criteriaFromFlags(cmd).Apply(trades)

	out := os.Stdout
	if exportFlags.out != "" {
		f, err := os.Create(exportFlags.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if exportFlags.summary {
		s := query.Summarize(trades)
		_, err = fmt.Fprint(out, query.FormatSummary(s, cfg.Currency))
		return err
	}
	return store.Export(out, trades)
}
