// Package reconcile decides which playlist items must be downloaded and which local files are stale.
//
// Titles and filenames are compared through normalized keys: every character that is not an
// ASCII letter or digit is dropped, and filenames lose their extension first. Keys are compared
// for set membership only, so two distinct titles with the same key count as one song.
//
// Matching is case-sensitive unless a [Matcher] is built with FoldCase.
package reconcile
