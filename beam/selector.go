package beam

import (
	"sort"

	"github.com/samber/lo"

	"beamsolve/config"
)

// ancestorDepth is how many generations of ancestor the diversity quota
// looks at: parent, grandparent, great-grandparent, great-great-grandparent.
const ancestorDepth = 4

// keyFunc produces a sort key for a node; ChooseForNextStep runs MoveTopN
// twice, once per keyFunc, and concatenates the results.
type keyFunc func(n *Node) [3]int64

// scoreKey favors high average clear value:
// floor(score*10000/max(collapse_count,1)), then score, then quality.
func scoreKey(n *Node) [3]int64 {
	cc := int64(n.Board.CollapseCount)
	if cc < 1 {
		cc = 1
	}
	avg := int64(n.Board.Score) * 10000 / cc
	return [3]int64{avg, int64(n.Board.Score), int64(n.Quality)}
}

// qualityKey favors compact stacks: quality, then score.
func qualityKey(n *Node) [3]int64 {
	return [3]int64{int64(n.Quality), int64(n.Board.Score), 0}
}

// PrePrune drops every state too far below the frontier's best score or
// occupied height to be worth carrying forward.
func PrePrune(nodes []*Node, scoreMargin, heightMargin int) []*Node {
	if len(nodes) == 0 {
		return nodes
	}
	maxScore, maxHeight := 0, 0
	for _, n := range nodes {
		if int(n.Board.Score) > maxScore {
			maxScore = int(n.Board.Score)
		}
		if n.OccupiedHeight > maxHeight {
			maxHeight = n.OccupiedHeight
		}
	}

	out := nodes[:0:0]
	for _, n := range nodes {
		if int(n.Board.Score)+scoreMargin < maxScore {
			continue
		}
		if n.OccupiedHeight+heightMargin < maxHeight {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ancestorQuota tracks, per accepted ancestor-at-depth-i group, how many
// survivors have been accepted under it and the K value of the last one
// accepted — MoveTopN only lets a new group member in if it ties that
// last-accepted K, once the group's quota is exhausted.
type ancestorQuota struct {
	counts  map[*Node]int
	lastKey map[*Node][3]int64
}

func newAncestorQuota() *ancestorQuota {
	return &ancestorQuota{counts: map[*Node]int{}, lastKey: map[*Node][3]int64{}}
}

// check reports whether the group keyed by anc (nil means "no such
// ancestor", which always admits) can take one more member with key k
// under quota q, without committing the acceptance.
func (aq *ancestorQuota) check(anc *Node, q int, k [3]int64) bool {
	if anc == nil {
		return true
	}
	if aq.counts[anc] < q {
		return true
	}
	return k == aq.lastKey[anc]
}

// commit records that a member with key k was accepted into anc's group.
func (aq *ancestorQuota) commit(anc *Node, k [3]int64) {
	if anc == nil {
		return
	}
	aq.counts[anc]++
	aq.lastKey[anc] = k
}

// MoveTopN sorts nodes descending by key, then walks the sorted list. Every
// candidate, even past the keep limit, must first pass its four ancestor
// generations' and its occupied-height bucket's diversity quotas (ties with
// the last accepted member of an exhausted group still get in); only a
// candidate that clears those quotas is then subject to the limit, where
// once `limit` is exhausted only a further tie with the very last accepted
// K is still admitted and the walk stops at the first non-tying candidate.
// When every node fits within limit, the whole sorted list is returned
// without consulting the quotas.
func MoveTopN(nodes []*Node, key keyFunc, limit int, ancestorQuotas [ancestorDepth]int, heightQuota int) []*Node {
	if limit <= 0 || len(nodes) == 0 {
		return nil
	}

	type scored struct {
		node *Node
		key  [3]int64
	}
	ranked := make([]scored, len(nodes))
	for i, n := range nodes {
		ranked[i] = scored{node: n, key: key(n)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].key != ranked[j].key {
			return keyLess(ranked[j].key, ranked[i].key)
		}
		return ranked[i].node.Board.BricksComp(&ranked[j].node.Board) > 0
	})

	sorted := make([]*Node, len(ranked))
	keys := make([][3]int64, len(ranked))
	for i, r := range ranked {
		sorted[i] = r.node
		keys[i] = r.key
	}
	if len(sorted) <= limit {
		return sorted
	}

	ancQuotas := [ancestorDepth]*ancestorQuota{}
	for i := range ancQuotas {
		ancQuotas[i] = newAncestorQuota()
	}
	heightQ := map[int]int{}
	heightLastKey := map[int][3]int64{}

	var out []*Node
	var lastKey [3]int64
	haveLast := false

	for i, n := range sorted {
		k := keys[i]

		ancestors := [ancestorDepth]*Node{}
		ok := true
		for d := 0; d < ancestorDepth; d++ {
			ancestors[d] = n.Ancestor(d + 1)
			if !ancQuotas[d].check(ancestors[d], ancestorQuotas[d], k) {
				ok = false
				break
			}
		}
		h := n.OccupiedHeight
		if ok {
			if heightQ[h] >= heightQuota && k != heightLastKey[h] {
				ok = false
			}
		}
		if !ok {
			continue
		}

		if len(out) >= limit {
			if !haveLast || k != lastKey {
				break
			}
		}

		for d := 0; d < ancestorDepth; d++ {
			ancQuotas[d].commit(ancestors[d], k)
		}
		if heightQ[h] < heightQuota {
			heightQ[h]++
			heightLastKey[h] = k
		}

		out = append(out, n)
		lastKey = k
		haveLast = true
	}

	return out
}

// keyLess reports whether a sorts before b in ascending order; callers
// comparing for a descending sort pass (b, a).
func keyLess(a, b [3]int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// ChooseForNextStep runs the pre-prune, then the score-ordered MoveTopN
// pass, then a quality-ordered MoveTopN pass over whatever the score pass
// didn't take, and concatenates the two into the next frontier.
func ChooseForNextStep(nodes []*Node, cfg config.Config) []*Node {
	pruned := PrePrune(nodes, cfg.IgnoreScoreThreshold, cfg.IgnoreHeightThreshold)

	scoreCount := cfg.ScoreKeepCount()
	qualityCount := cfg.QualityKeepCount()
	if len(pruned) <= scoreCount+qualityCount {
		return pruned
	}

	var scoreQuotas, qualityQuotas [ancestorDepth]int
	for i := 0; i < ancestorDepth; i++ {
		scoreQuotas[i] = int(cfg.ScoreParentQuota[i] * float64(scoreCount))
		qualityQuotas[i] = int(cfg.QualityParentQuota[i] * float64(qualityCount))
	}
	scoreHeightQuota := int(cfg.ScoreHeightQuota * float64(scoreCount))
	qualityHeightQuota := int(cfg.QualityHeightQuota * float64(qualityCount))

	first := MoveTopN(pruned, scoreKey, scoreCount, scoreQuotas, scoreHeightQuota)

	remaining := subtract(pruned, first)
	second := MoveTopN(remaining, qualityKey, qualityCount, qualityQuotas, qualityHeightQuota)

	return append(first, second...)
}

func subtract(all, taken []*Node) []*Node {
	return lo.Without(all, taken...)
}
