package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/backup"
	"github.com/rustyeddy/tradebook/config"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage zip backups of the journal",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the data directory into a new archive",
	Args:  cobra.NoArgs,
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archives, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore the data directory from an archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
}

func backupManager(cfg *config.Config) *backup.Manager {
	return backup.New(cfg.Data.Dir, cfg.BackupDir(), newLogger())
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archive, err := backupManager(cfg).Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", archive)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archives, err := backupManager(cfg).List()
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		fmt.Println("No backups yet")
		return nil
	}
	for _, a := range archives {
		fmt.Println(filepath.Base(a))
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr := backupManager(cfg)

	archive := args[0]
	// Accept a bare archive name from 'backup list'.
	if filepath.Dir(archive) == "." {
		archive = filepath.Join(cfg.BackupDir(), archive)
	}
	if err := mgr.Restore(archive); err != nil {
		return err
	}
	fmt.Printf("Restored from %s\n", archive)
	return nil
}

// maybeBackup snapshots the journal after a mutation when automatic
// backups are on. Backup trouble is reported but never fails the
// command that already changed the journal.
func maybeBackup(cfg *config.Config) error {
	if !cfg.Backup.Enabled {
		return nil
	}
	log := newLogger()
	mgr := backup.New(cfg.Data.Dir, cfg.BackupDir(), log)
	if _, err := mgr.Create(); err != nil {
		log.Warn().Err(err).Msg("automatic backup failed")
		return nil
	}
	if _, err := mgr.Prune(cfg.Backup.Keep); err != nil {
		log.Warn().Err(err).Msg("backup prune failed")
	}
	return nil
}
