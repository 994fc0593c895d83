package arbitration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
)

func candidates(names ...string) []entity.Candidate {
	out := make([]entity.Candidate, len(names))
	for i, n := range names {
		out[i] = entity.Candidate{Name: n}
	}
	return out
}

func TestApplyTallies_SortsStable(t *testing.T) {
	ranked := applyTallies(candidates("alice", "bob", "carol", "dave"), []entity.Tally{
		{Option: "carol", Votes: 7},
		{Option: "bob", Votes: 3},
		{Option: "dave", Votes: 3},
		{Option: "ghost", Votes: 100},
	})

	assert.Equal(t, []entity.Candidate{
		{Name: "carol", Votes: 7},
		{Name: "bob", Votes: 3},
		{Name: "dave", Votes: 3},
		{Name: "alice", Votes: 0},
	}, ranked)
}

func TestResolveSeats(t *testing.T) {
	tests := []struct {
		name      string
		ranked    []entity.Candidate
		seats     uint8
		elected   []string
		tied      []string
		dropped   []string
		remaining uint8
	}{
		{
			name:    "все проходят",
			ranked:  []entity.Candidate{{Name: "a", Votes: 1}, {Name: "b"}},
			seats:   3,
			elected: []string{"a", "b"},
		},
		{
			name:    "чёткая граница",
			ranked:  []entity.Candidate{{Name: "a", Votes: 9}, {Name: "b", Votes: 5}, {Name: "c", Votes: 2}},
			seats:   2,
			elected: []string{"a", "b"},
			dropped: []string{"c"},
		},
		{
			name:      "ничья на границе",
			ranked:    []entity.Candidate{{Name: "a", Votes: 10}, {Name: "b", Votes: 5}, {Name: "c", Votes: 5}, {Name: "d", Votes: 1}},
			seats:     2,
			elected:   []string{"a"},
			tied:      []string{"b", "c"},
			dropped:   []string{"d"},
			remaining: 1,
		},
		{
			name:      "ничья за все места",
			ranked:    []entity.Candidate{{Name: "a", Votes: 4}, {Name: "b", Votes: 4}, {Name: "c", Votes: 4}},
			seats:     2,
			tied:      []string{"a", "b", "c"},
			remaining: 2,
		},
		{
			name:    "ничья ниже границы не учитывается",
			ranked:  []entity.Candidate{{Name: "a", Votes: 8}, {Name: "b", Votes: 3}, {Name: "c", Votes: 3}},
			seats:   1,
			elected: []string{"a"},
			dropped: []string{"b", "c"},
		},
		{
			name:    "без голосов",
			ranked:  []entity.Candidate{{Name: "a", Votes: 2}, {Name: "b"}, {Name: "c"}},
			seats:   2,
			elected: []string{"a", "b"},
			dropped: []string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resolveSeats(tt.ranked, tt.seats)
			assert.ElementsMatch(t, tt.elected, out.elected)
			assert.ElementsMatch(t, tt.tied, out.tied)
			assert.ElementsMatch(t, tt.dropped, out.dropped)
			assert.Equal(t, tt.remaining, out.remaining)
		})
	}
}

func TestRunoffBallotName(t *testing.T) {
	first := runoffBallotName("arbelect1", 1, 0)
	assert.Len(t, first, ballotNameLength)
	assert.NoError(t, entity.ValidateBallotName(first))
	assert.Equal(t, first, runoffBallotName("arbelect1", 1, 0))
	assert.NotEqual(t, first, runoffBallotName("arbelect1", 1, 1))
	assert.NotEqual(t, first, runoffBallotName("arbelect1", 2, 0))
}
