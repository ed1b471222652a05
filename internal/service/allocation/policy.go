package allocation

import (
	"errors"
	"sort"

	"github.com/kirinyoku/tablebook/internal/domain"
)

var ErrNoCandidates = errors.New("no candidate tables")

// SelectBest picks the table whose capacity is closest to partySize. Ties go to the
// lower table number, then the lower ID, so the choice is deterministic.
func SelectBest(candidates []domain.Table, partySize int) (domain.Table, error) {
	if len(candidates) == 0 {
		return domain.Table{}, ErrNoCandidates
	}

	best := candidates[0]
	for _, t := range candidates[1:] {
		if better(t, best, partySize) {
			best = t
		}
	}

	return best, nil
}

// Rank orders candidates best-first using the same rule as SelectBest.
func Rank(candidates []domain.Table, partySize int) []domain.Table {
	out := make([]domain.Table, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i], out[j], partySize)
	})

	return out
}

func better(a, b domain.Table, partySize int) bool {
	sa, sb := slack(a, partySize), slack(b, partySize)
	if sa != sb {
		return sa < sb
	}
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return a.ID.String() < b.ID.String()
}

func slack(t domain.Table, partySize int) int {
	d := t.Capacity - partySize
	if d < 0 {
		return -d
	}
	return d
}
