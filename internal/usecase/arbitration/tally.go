package arbitration

import (
	"sort"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
)

type seatOutcome struct {
	elected []string
	tied    []string
	dropped []string
	// remaining - места, которые разыгрываются во втором туре.
	remaining uint8
}

// applyTallies переносит итоги бюллетеня на кандидатов и сортирует их по убыванию голосов.
// При равенстве сохраняется порядок регистрации.
func applyTallies(candidates []entity.Candidate, tallies []entity.Tally) []entity.Candidate {
	votes := make(map[string]uint64, len(tallies))
	for _, t := range tallies {
		votes[t.Option] = t.Votes
	}
	ranked := make([]entity.Candidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = entity.Candidate{Name: c.Name, Votes: votes[c.Name]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}

// resolveSeats распределяет места. Если на границе мест несколько кандидатов
// с одинаковым числом голосов, никто из них не проходит, они идут во второй тур.
func resolveSeats(ranked []entity.Candidate, seats uint8) seatOutcome {
	n := int(seats)
	if len(ranked) <= n {
		return seatOutcome{elected: names(ranked)}
	}

	boundary := ranked[n].Votes
	if n == 0 || boundary == 0 || ranked[n-1].Votes != boundary {
		return seatOutcome{elected: names(ranked[:n]), dropped: names(ranked[n:])}
	}

	var out seatOutcome
	for _, c := range ranked {
		switch {
		case c.Votes > boundary:
			out.elected = append(out.elected, c.Name)
		case c.Votes == boundary:
			out.tied = append(out.tied, c.Name)
		default:
			out.dropped = append(out.dropped, c.Name)
		}
	}
	out.remaining = uint8(n - len(out.elected))
	return out
}

func names(candidates []entity.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Name)
	}
	return out
}
