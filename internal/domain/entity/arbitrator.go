package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type Arbitrator struct {
	Name            string                       `json:"arb"`
	Status          valueobject.ArbitratorStatus `json:"arb_status"`
	OpenCaseIDs     []uint64                     `json:"open_case_ids"`
	ClosedCaseIDs   []uint64                     `json:"closed_case_ids"`
	RecusedCaseIDs  []uint64                     `json:"recused_case_ids"`
	CredentialsLink string                       `json:"credentials_link"`
	ElectedTime     time.Time                    `json:"elected_time"`
	TermExpiration  time.Time                    `json:"term_expiration"`
	Languages       []uint16                     `json:"languages"`
}

func NewArbitrator(name, credentialsLink string, electedTime time.Time, termLength time.Duration) *Arbitrator {
	a := &Arbitrator{
		Name:           name,
		OpenCaseIDs:    []uint64{},
		ClosedCaseIDs:  []uint64{},
		RecusedCaseIDs: []uint64{},
		Languages:      []uint16{},
	}
	a.Seat(credentialsLink, electedTime, termLength)
	return a
}

// Seat начинает новый срок полномочий, сохраняя историю дел.
func (a *Arbitrator) Seat(credentialsLink string, electedTime time.Time, termLength time.Duration) {
	a.Status = valueobject.ArbitratorStatusAvailable
	a.CredentialsLink = credentialsLink
	a.ElectedTime = electedTime
	a.TermExpiration = electedTime.Add(termLength)
}

func (a *Arbitrator) TermExpired(now time.Time) bool {
	return now.After(a.TermExpiration)
}

// HoldsSeat сообщает, занимает ли арбитр место при подсчёте свободных мест.
func (a *Arbitrator) HoldsSeat() bool {
	return a.Status != valueobject.ArbitratorStatusSeatExpired && a.Status != valueobject.ArbitratorStatusRemoved
}

// CheckActive проверяет, что арбитр не отстранён и срок не истёк.
func (a *Arbitrator) CheckActive(now time.Time) error {
	if a.Status == valueobject.ArbitratorStatusRemoved {
		return apperror.ErrRemoved
	}
	if a.Status == valueobject.ArbitratorStatusSeatExpired || a.TermExpired(now) {
		return apperror.ErrTermExpired
	}
	return nil
}

func (a *Arbitrator) CheckAvailable(now time.Time) error {
	if err := a.CheckActive(now); err != nil {
		return err
	}
	if a.Status != valueobject.ArbitratorStatusAvailable {
		return apperror.ErrNotAvailable
	}
	return nil
}

func (a *Arbitrator) AddOpenCase(caseID uint64) {
	a.OpenCaseIDs = append(a.OpenCaseIDs, caseID)
}

func (a *Arbitrator) CloseCase(caseID uint64) {
	a.OpenCaseIDs = removeID(a.OpenCaseIDs, caseID)
	a.ClosedCaseIDs = append(a.ClosedCaseIDs, caseID)
}

func (a *Arbitrator) RecuseCase(caseID uint64) {
	a.OpenCaseIDs = removeID(a.OpenCaseIDs, caseID)
	a.RecusedCaseIDs = append(a.RecusedCaseIDs, caseID)
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
