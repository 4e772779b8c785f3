package align

import (
	"testing"

	"pgregory.net/rapid"
)

func genWords() *rapid.Generator[[]string] {
	word := rapid.SampledFrom([]string{"the", "a", "cat", "dog", "sat", "ran", "on", "mat", "hello", "world"})
	return rapid.SliceOfN(word, 0, 12)
}

func TestCountInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ref := genWords().Draw(t, "ref")
		hyp := genWords().Draw(t, "hyp")

		res := Words(ref, hyp)

		if got := res.Hits + res.Substitutions + res.Deletions; got != len(ref) {
			t.Fatalf("hits+subs+dels = %d, want len(ref) = %d", got, len(ref))
		}
		if got := res.Hits + res.Substitutions + res.Insertions; got != len(hyp) {
			t.Fatalf("hits+subs+ins = %d, want len(hyp) = %d", got, len(hyp))
		}
		if len(res.Ops) != res.Hits+res.Substitutions+res.Insertions+res.Deletions {
			t.Fatalf("op count %d does not match counters %+v", len(res.Ops), res)
		}
	})
}

func TestDistanceNeverExceedsNaive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ref := genWords().Draw(t, "ref")
		hyp := genWords().Draw(t, "hyp")

		res := Words(ref, hyp)

		// Replacing everything and inserting/deleting the length difference
		// is always achievable, so the minimum cannot be worse.
		naive := len(ref)
		if len(hyp) > naive {
			naive = len(hyp)
		}
		if res.Errors() > naive {
			t.Fatalf("edit distance %d exceeds naive bound %d", res.Errors(), naive)
		}
	})
}
