// Package diffstream splits and merges unified diff streams.
//
// A stream is an ordered sequence of file-change records, each starting at a
// "diff --git" marker line and running to the next marker or end of stream.
// Records are opaque text: the package reads only the marker line and the
// --- / +++ path annotation lines, and never validates hunk contents.
//
// [SplitRecords] partitions a stream into records such that concatenating
// them reproduces the input byte for byte. [WriteChunks] persists each
// record as a zero-padded, independently reviewable chunk file.
// [Merge] combines several projects' streams into one, prefixing every path
// with its project name so files from different projects cannot collide.
package diffstream
