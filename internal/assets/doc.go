// Package assets links discovered crest image files to club records.
//
// Scan lists candidate files from an asset directory. The Assigner derives a
// matching key from each file name, resolves it against the entity snapshot,
// applies the overlap gate, copies the file into the destination store, and
// records the stored reference on the club. Each file ends in exactly one
// Outcome; I/O failures stay local to that file.
package assets
