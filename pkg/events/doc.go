// Package events defines the progress and diagnostic events emitted while
// flattening a tree, and the observers that consume them.
//
// The walker and the sanitizer never format output themselves. They emit
// Event values; observers decide what to do with them: LogObserver writes
// structured zerolog records, the console reporter in pkg/ui/console
// prints the human progress stream and the ledger in pkg/ledger appends
// hash records to disk.
package events
