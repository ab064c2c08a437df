// Package flatten reproduces a source tree in a destination tree while
// collapsing chains of single-child directories.
//
// A directory whose only entry is another directory carries no branching
// information. The walker folds its name into an accumulated name joined
// with "++" and moves on without creating anything. The first directory
// that branches (several entries, a lone file, or nothing at all) ends the
// chain: the accumulated name is sanitized and used as the name of a real
// destination directory, the directory's files are copied into it and
// verified by SHA-256, and each subdirectory starts a fresh chain below it.
//
// Given
//
//	src/build/PS3/pal_en/file.bin
//	src/docs/a.txt
//	src/docs/b.txt
//
// and the rule `build\+\+PS3\+\+pal_en -> EU_EN`, the destination becomes
//
//	dest/EU_EN/file.bin
//	dest/docs/a.txt
//	dest/docs/b.txt
//
// The source root itself is never materialized, only its contents.
//
// The walk is sequential and stops at the first error. Errors are returned
// as *errors.FlatError values; progress is reported as events.Event values
// to the configured observer.
package flatten
