package align

// Kind classifies a single alignment operation.
type Kind uint8

const (
	Match Kind = iota
	Substitute
	Insert
	Delete
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "match"
	case Substitute:
		return "substitute"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Operation is one step of an alignment path. Match and Substitute carry both
// tokens, Insert carries only the hypothesis token, Delete only the reference
// token. Index is the position within the merged operation sequence.
type Operation struct {
	Kind  Kind
	Ref   string
	Hyp   string
	Index int
}

// Result is the full alignment between a reference and a hypothesis word
// sequence. It is created once per comparison and not mutated afterwards.
type Result struct {
	Ops           []Operation
	Hits          int
	Substitutions int
	Insertions    int
	Deletions     int
	RefWords      int
	HypWords      int
}

// WER returns (substitutions + insertions + deletions) / reference words.
// An empty reference yields 0 regardless of the hypothesis.
func (r Result) WER() float64 {
	if r.RefWords == 0 {
		return 0
	}
	return float64(r.Substitutions+r.Insertions+r.Deletions) / float64(r.RefWords)
}

// Errors returns the total number of errored operations.
func (r Result) Errors() int {
	return r.Substitutions + r.Insertions + r.Deletions
}

// Words aligns hyp against ref with minimum edit distance at unit costs and
// returns one optimal operation path. Ties between equally cheap predecessors
// are broken diagonal first, then deletion, then insertion, so output is
// deterministic for a given input pair.
func Words(ref, hyp []string) Result {
	rows, cols := len(ref)+1, len(hyp)+1

	cost := make([][]int, rows)
	for i := range cost {
		cost[i] = make([]int, cols)
	}
	for i := 1; i < rows; i++ {
		cost[i][0] = i
	}
	for j := 1; j < cols; j++ {
		cost[0][j] = j
	}
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			if ref[i-1] == hyp[j-1] {
				cost[i][j] = cost[i-1][j-1]
				continue
			}
			best := cost[i-1][j-1]
			if cost[i-1][j] < best {
				best = cost[i-1][j]
			}
			if cost[i][j-1] < best {
				best = cost[i][j-1]
			}
			cost[i][j] = best + 1
		}
	}

	// Backtrack from the corner, collecting operations in reverse.
	var rev []Operation
	i, j := len(ref), len(hyp)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && cost[i][j] == cost[i-1][j-1]:
			rev = append(rev, Operation{Kind: Match, Ref: ref[i-1], Hyp: hyp[j-1]})
			i--
			j--
		case i > 0 && j > 0 && cost[i][j] == cost[i-1][j-1]+1:
			rev = append(rev, Operation{Kind: Substitute, Ref: ref[i-1], Hyp: hyp[j-1]})
			i--
			j--
		case i > 0 && cost[i][j] == cost[i-1][j]+1:
			rev = append(rev, Operation{Kind: Delete, Ref: ref[i-1]})
			i--
		default:
			rev = append(rev, Operation{Kind: Insert, Hyp: hyp[j-1]})
			j--
		}
	}

	res := Result{
		Ops:      make([]Operation, len(rev)),
		RefWords: len(ref),
		HypWords: len(hyp),
	}
	for k := range rev {
		op := rev[len(rev)-1-k]
		op.Index = k
		res.Ops[k] = op
		switch op.Kind {
		case Match:
			res.Hits++
		case Substitute:
			res.Substitutions++
		case Insert:
			res.Insertions++
		case Delete:
			res.Deletions++
		}
	}
	return res
}
