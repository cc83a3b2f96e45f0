// Package region rewrites the ghmm-owned block of a user file.
//
// Every file ghmm touches (SSH client config, global git config, shell
// start-up script) is owned by the user. ghmm only owns the span between
// a begin/end marker pair:
//
//	# >>> ghmm managed block >>>
//	# Generated by ghmm. Edits inside this block are overwritten by 'ghmm apply'.
//	...
//	# <<< ghmm managed block <<<
//
// [Apply] replaces that span in full and leaves every byte outside it
// untouched. When the file has no block yet, one is appended after a blank
// line; the first apply adds at most two newlines to the user's content so
// it ends in one, and later applies leave it as is. An unbalanced
// marker pair is reported as [ErrCorrupt] and the file is left alone.
// Writes go through a temp file and an atomic rename.
package region
