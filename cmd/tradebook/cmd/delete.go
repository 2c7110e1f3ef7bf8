package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a trade permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q", args[0])
	}

	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}

	removed, err := mgr.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("Trade %d was not in the journal\n", id)
		return nil
	}
	fmt.Printf("Deleted trade %d\n", id)
	return maybeBackup(cfg)
}
