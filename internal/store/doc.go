// Package store owns the gateway's persisted state: the settings file, the
// alias file and the transient backup artifact, all inside one data
// directory.
//
// Readers get copies. Mutations write the file first and swap the in-memory
// value second, so a failed write leaves both untouched. Backup and restore
// share the artifact file and are serialized; only one runs at a time.
//
// A Store is a container.Target:
//
//	outcome, err := st.RestoreBackup(ctx, upload)
//	if outcome != container.OutcomeOK {
//	    // aliases may already be restored; settings are not
//	}
package store
