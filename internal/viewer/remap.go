package viewer

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// remapOffsets carries rune offsets into before over to the same places in
// after. An offset inside deleted text lands where the deletion was made.
func remapOffsets(before, after string, offsets ...int) []int {
	if before == after {
		return offsets
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = remapOffset(diffs, o)
	}
	return out
}

func remapOffset(diffs []diffmatchpatch.Diff, offset int) int {
	oldPos, newPos := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if offset <= oldPos+n {
				return newPos + offset - oldPos
			}
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			if offset < oldPos+n {
				return newPos
			}
			oldPos += n
		case diffmatchpatch.DiffInsert:
			newPos += n
		}
	}
	return newPos + max(offset-oldPos, 0)
}
