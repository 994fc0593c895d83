package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type Candidate struct {
	Name  string `json:"name"`
	Votes uint64 `json:"votes"`
}

type Election struct {
	ID                 uint64                     `json:"election_id"`
	BallotName         string                     `json:"ballot_name"`
	InfoURL            string                     `json:"info_url"`
	Candidates         []Candidate                `json:"candidates"`
	AvailableSeats     uint8                      `json:"available_seats"`
	BeginAddCandidates time.Time                  `json:"begin_add_candidates_ts"`
	EndAddCandidates   time.Time                  `json:"end_add_candidates_ts"`
	BeginVoting        time.Time                  `json:"begin_voting_ts"`
	EndVoting          time.Time                  `json:"end_voting_ts"`
	Status             valueobject.ElectionStatus `json:"status"`
}

func NewElection(id uint64, infoURL string, seats uint8, now, endAddCandidates time.Time) *Election {
	return &Election{
		ID:                 id,
		InfoURL:            infoURL,
		Candidates:         []Candidate{},
		AvailableSeats:     seats,
		BeginAddCandidates: now,
		EndAddCandidates:   endAddCandidates,
		Status:             valueobject.ElectionStatusCreated,
	}
}

func (e *Election) IsClosed() bool {
	return e.Status == valueobject.ElectionStatusClosed
}

func (e *Election) HasCandidate(name string) bool {
	for _, c := range e.Candidates {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CheckCandidatesOpen проверяет, что список кандидатов ещё можно менять.
func (e *Election) CheckCandidatesOpen(now time.Time) error {
	if e.Status != valueobject.ElectionStatusCreated {
		return apperror.ErrElectionWrongStatus
	}
	if !now.Before(e.EndAddCandidates) {
		return apperror.ErrCandidatesClosed
	}
	return nil
}

func (e *Election) AddCandidate(name string) error {
	if e.HasCandidate(name) {
		return apperror.ErrAlreadyCandidate
	}
	e.Candidates = append(e.Candidates, Candidate{Name: name})
	return nil
}

func (e *Election) RemoveCandidate(name string) error {
	for i, c := range e.Candidates {
		if c.Name == name {
			e.Candidates = append(e.Candidates[:i:i], e.Candidates[i+1:]...)
			return nil
		}
	}
	return apperror.ErrCandidateNotFound
}

func (e *Election) CandidateNames() []string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, c.Name)
	}
	return names
}
