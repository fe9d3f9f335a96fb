// Package repositories implements SQLite persistence for the local add
// history.
//
// Every item the pipeline successfully submits is recorded with the list it
// came from and the run id, giving `traktarr history` an audit trail of what
// was added when, independent of the target servers' own databases.
package repositories
