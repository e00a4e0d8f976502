// Package backup manages snapshot files of the gateway state.
//
// A snapshot is a backup container written to a file named after its
// creation time:
//
//	$XDG_DATA_HOME/lighthub/backups/
//	├── 20260123T100712.lhb
//	├── 20260123T100712-1.lhb
//	└── 20260124T081500.lhb
//
// # Creating Snapshots
//
//	mgr := backup.NewManager(backup.WithRetentionCount(5))
//	snap, err := mgr.Create(st)
//
// Create prunes the directory to the retention count afterwards.
// [Manager.EnsureSnapshot] takes one snapshot per process before a
// destructive change.
//
// # Restoring Snapshots
//
//	outcome, err := mgr.Restore(ctx, st, "20260123T100712")
//
// The outcome follows the container package: a rejected file leaves the
// destination untouched, while a settings failure leaves the restored
// aliases in place.
//
// # Listing and Pruning
//
// [Manager.List] returns snapshots newest first, each inspected for its
// alias count and validity. [Manager.Prune] keeps the newest N.
//
// # Error Handling
//
//   - [ErrNoBackupsFound]: the backup directory is empty or missing
//   - [ErrBackupNotFound]: no snapshot has the requested ID
//   - [ErrInvalidID]: the ID is not a timestamp
//   - [ErrRestoreRejected]: the snapshot could not be restored
package backup
