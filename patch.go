package wypal

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch returns a character-level patch that turns before into after, in
// the diff-match-patch text format. Identical texts give "".
func Patch(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches)
}

// ApplyPatch applies a patch produced by Patch to text. It fails if the
// patch text is malformed or any hunk cannot be placed.
func ApplyPatch(text, patch string) (string, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("parse patch: %w", err)
	}
	out, applied := dmp.PatchApply(patches, text)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("patch hunk %d did not apply", i+1)
		}
	}
	return out, nil
}
