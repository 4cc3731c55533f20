// Package cli implements the timeline command line client on top of cobra.
//
// Commands map one to one onto the server API: entries (add, list, delete),
// imports (import, batches, undo, bulk-delete), the archive, the month
// index, images, and the mood queue. Connection settings come from the
// client config file and may be overridden by persistent flags.
package cli
