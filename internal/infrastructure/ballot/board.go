package ballot

import (
	"context"
	"fmt"
	"sync"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

// Board - голосование в памяти процесса для одиночного развёртывания и тестов.
type Board struct {
	mu      sync.Mutex
	account string
	fee     valueobject.Asset
	ballots map[string]*boardBallot
}

type boardBallot struct {
	request entity.BallotRequest
	votes   map[string]uint64
	closed  bool
}

func NewBoard(account string, fee valueobject.Asset) *Board {
	return &Board{account: account, fee: fee, ballots: make(map[string]*boardBallot)}
}

func (b *Board) Account() string {
	return b.account
}

func (b *Board) Fee(context.Context) (valueobject.Asset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fee, nil
}

// SetFee меняет плату за создание бюллетеня.
func (b *Board) SetFee(fee valueobject.Asset) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fee = fee
}

func (b *Board) CreateBallot(_ context.Context, req entity.BallotRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.ballots[req.Name]; exists {
		return fmt.Errorf("ballot: бюллетень %s уже существует", req.Name)
	}
	if len(req.Options) == 0 {
		return fmt.Errorf("ballot: бюллетень %s без вариантов", req.Name)
	}
	votes := make(map[string]uint64, len(req.Options))
	for _, option := range req.Options {
		votes[option] = 0
	}
	b.ballots[req.Name] = &boardBallot{request: req, votes: votes}
	return nil
}

// Vote добавляет голоса за вариант открытого бюллетеня.
func (b *Board) Vote(name, option string, votes uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ballot, ok := b.ballots[name]
	if !ok {
		return fmt.Errorf("ballot: бюллетень %s не найден", name)
	}
	if ballot.closed {
		return fmt.Errorf("ballot: бюллетень %s закрыт", name)
	}
	if _, ok := ballot.votes[option]; !ok {
		return fmt.Errorf("ballot: вариант %s не найден", option)
	}
	ballot.votes[option] += votes
	return nil
}

func (b *Board) CloseBallot(_ context.Context, name string) ([]entity.Tally, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ballot, ok := b.ballots[name]
	if !ok {
		return nil, fmt.Errorf("ballot: бюллетень %s не найден", name)
	}
	ballot.closed = true
	tallies := make([]entity.Tally, 0, len(ballot.request.Options))
	for _, option := range ballot.request.Options {
		tallies = append(tallies, entity.Tally{Option: option, Votes: ballot.votes[option]})
	}
	return tallies, nil
}

// Ballot возвращает параметры созданного бюллетеня.
func (b *Board) Ballot(name string) (entity.BallotRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ballot, ok := b.ballots[name]
	if !ok {
		return entity.BallotRequest{}, false
	}
	return ballot.request, true
}
