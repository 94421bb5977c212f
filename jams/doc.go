// Package jams models the annotated document that deformers operate on: file
// metadata, time-stamped annotations, and a sandbox recording the chain of
// deformations applied so far.
//
// Documents are built in memory. Reading or writing JAMS files is not
// supported.
package jams
