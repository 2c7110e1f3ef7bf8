package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/manager"
	"github.com/rustyeddy/tradebook/trade"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of an existing trade",
	Long: `Edit an existing trade. Only the flags you pass change; the rest of
the record is kept. Status and P&L are recomputed from the result, so
'--exit 0' re-opens a closed trade.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("date", "", "execution date YYYY-MM-DD")
	editCmd.Flags().String("symbol", "", "instrument symbol")
	editCmd.Flags().String("strategy", "", "strategy label")
	editCmd.Flags().String("entry", "", "entry price")
	editCmd.Flags().String("exit", "", "exit price (0 re-opens)")
	editCmd.Flags().String("qty", "", "signed quantity")
	editCmd.Flags().String("notes", "", "free-form notes")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q", args[0])
	}

	fields := trade.Fields{}
	for flag, field := range map[string]string{
		"date":     trade.FieldDate,
		"symbol":   trade.FieldSymbol,
		"strategy": trade.FieldStrategy,
		"entry":    trade.FieldEntryPrice,
		"exit":     trade.FieldExitPrice,
		"qty":      trade.FieldQuantity,
		"notes":    trade.FieldNotes,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			fields[field] = v
		}
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to change")
	}

	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}

	updated, err := mgr.Update(id, fields)
	if err != nil {
		var verr *manager.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("edit rejected")
		}
		return err
	}
	fmt.Printf("Updated trade %d: %s (%s, P&L %+.2f)\n", updated.ID, updated.Symbol, updated.Status, updated.PnL)
	return maybeBackup(cfg)
}
