package arbitration

import (
	"fmt"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

func (s *session) initElection(p InitElectionParams) (interface{}, error) {
	if err := valueobject.ValidateContentLink(p.ElectionInfo); err != nil {
		return nil, err
	}
	current, err := s.currentElection()
	if err != nil {
		return nil, err
	}
	if current != nil && !current.IsClosed() {
		return nil, apperror.ErrElectionInProgress
	}
	seats, err := s.availableSeats()
	if err != nil {
		return nil, err
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}

	election, err := s.startElection(p.ElectionInfo, seats, s.now.Add(cfg.AddCandidatesDuration))
	if err != nil {
		return nil, err
	}
	return InitElectionResult{ElectionID: election.ID, AvailableSeats: election.AvailableSeats}, nil
}

func (s *session) startElection(info string, seats uint8, endAddCandidates time.Time) (*entity.Election, error) {
	cfg, err := s.mutableConfig()
	if err != nil {
		return nil, err
	}
	id, err := s.tx.Elections().NextID(s.ctx)
	if err != nil {
		return nil, err
	}
	election := entity.NewElection(id, info, seats, s.now, endAddCandidates)
	if err := s.tx.Elections().Create(s.ctx, election); err != nil {
		return nil, err
	}
	cfg.CurrentElectionID = id
	return election, nil
}

func (s *session) candAddLead(p CandAddLeadParams) (interface{}, error) {
	election, err := s.openElection()
	if err != nil {
		return nil, err
	}
	nominee, err := s.findNominee(p.Nominee)
	if err != nil {
		return nil, err
	}
	if nominee == nil {
		return nil, apperror.ErrNotNominee
	}
	if err := election.AddCandidate(p.Nominee); err != nil {
		return nil, err
	}
	if err := s.tx.Elections().Update(s.ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

func (s *session) candRmvLead(p CandRmvLeadParams) (interface{}, error) {
	election, err := s.openElection()
	if err != nil {
		return nil, err
	}
	if err := election.RemoveCandidate(p.Nominee); err != nil {
		return nil, err
	}
	if err := s.tx.Elections().Update(s.ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// openElection возвращает текущие выборы, пока в них можно добавлять кандидатов.
func (s *session) openElection() (*entity.Election, error) {
	election, err := s.currentElection()
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, apperror.ErrElectionNotFound
	}
	if err := election.CheckCandidatesOpen(s.now); err != nil {
		return nil, err
	}
	return election, nil
}

func (s *session) beginVotingAction(p BeginVotingParams) (interface{}, error) {
	election, err := s.currentElection()
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, apperror.ErrElectionNotFound
	}
	if election.Status != valueobject.ElectionStatusCreated {
		return nil, apperror.ErrElectionWrongStatus
	}
	if s.now.Before(election.EndAddCandidates) {
		return nil, apperror.ErrCandidatesOpen
	}
	if err := s.beginVoting(election, p.BallotName, p.Runoff); err != nil {
		return nil, err
	}
	return election, nil
}

func (s *session) beginVoting(election *entity.Election, ballotName string, runoff bool) error {
	if err := entity.ValidateBallotName(ballotName); err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	fee, err := s.ballotFee()
	if err != nil {
		return err
	}
	funds, err := s.funds()
	if err != nil {
		return err
	}
	if err := funds.RequireAvailable(fee); err != nil {
		return err
	}

	if len(election.Candidates) <= int(election.AvailableSeats) {
		for _, name := range election.CandidateNames() {
			if err := s.promote(name); err != nil {
				return err
			}
		}
		election.Status = valueobject.ElectionStatusClosed
		election.BeginVoting = s.now
		election.EndVoting = s.now
		if err := s.tx.Elections().Update(s.ctx, election); err != nil {
			return err
		}
		s.notifyElection(election, election.CandidateNames(), nil)
		return nil
	}

	existing, err := s.tx.Elections().FindByBallotName(s.ctx, ballotName)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.ErrBallotNameTaken
	}
	if err := funds.Spend(fee); err != nil {
		return err
	}
	if _, err := s.enqueueTransfer(valueobject.TransferKindBallotFee, s.engine.ballots.Account(), fee, fmt.Sprintf("ballot fee %s", ballotName)); err != nil {
		return err
	}

	election.BallotName = ballotName
	election.Status = valueobject.ElectionStatusVoting
	election.BeginVoting = s.now
	election.EndVoting = s.now.Add(cfg.VotingDuration(runoff))
	if err := s.tx.Elections().Update(s.ctx, election); err != nil {
		return err
	}

	req := entity.BallotRequest{
		Name:       ballotName,
		Title:      fmt.Sprintf("arbitrator election %d", election.ID),
		Content:    election.InfoURL,
		Options:    election.CandidateNames(),
		MinOptions: 1,
		MaxOptions: election.AvailableSeats,
		EndTime:    election.EndVoting,
	}
	if err := s.engine.ballots.CreateBallot(s.ctx, req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUnavailable, "не удалось создать бюллетень")
	}
	return nil
}

// endElection закрывает текущие выборы. При ничьей на границе мест сразу
// запускается второй тур, он возвращается в EndElectionResult.Runoff.
func (s *session) endElection(_ EndElectionParams) (interface{}, error) {
	election, err := s.currentElection()
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, apperror.ErrElectionNotFound
	}
	if election.Status != valueobject.ElectionStatusVoting {
		return nil, apperror.ErrElectionWrongStatus
	}
	if s.now.Before(election.EndVoting) {
		return nil, apperror.ErrVotingOpen
	}
	fee, err := s.ballotFee()
	if err != nil {
		return nil, err
	}
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}
	if err := funds.RequireAvailable(fee); err != nil {
		return nil, err
	}

	tallies, err := s.engine.ballots.CloseBallot(s.ctx, election.BallotName)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnavailable, "не удалось получить итоги голосования")
	}
	election.Candidates = applyTallies(election.Candidates, tallies)
	election.Status = valueobject.ElectionStatusClosed
	if err := s.tx.Elections().Update(s.ctx, election); err != nil {
		return nil, err
	}

	outcome := resolveSeats(election.Candidates, election.AvailableSeats)
	for _, name := range outcome.elected {
		if err := s.promote(name); err != nil {
			return nil, err
		}
	}
	for _, name := range outcome.dropped {
		if err := s.tx.Nominees().Delete(s.ctx, name); err != nil {
			return nil, err
		}
	}
	s.notifyElection(election, outcome.elected, outcome.tied)

	result := EndElectionResult{Election: election}
	if len(outcome.tied) == 0 {
		return result, nil
	}

	runoff, err := s.startElection(election.InfoURL, outcome.remaining, s.now)
	if err != nil {
		return nil, err
	}
	for _, name := range outcome.tied {
		if err := runoff.AddCandidate(name); err != nil {
			return nil, err
		}
	}
	ballotName, err := s.freeRunoffBallotName(election.BallotName, runoff.ID)
	if err != nil {
		return nil, err
	}
	if err := s.beginVoting(runoff, ballotName, true); err != nil {
		return nil, err
	}
	for _, name := range outcome.tied {
		s.notify(name, EventElectionRunoff, ElectionEvent{ElectionID: runoff.ID, Runoff: outcome.tied})
	}
	result.Runoff = runoff
	return result, nil
}

func (s *session) ballotFee() (valueobject.Asset, error) {
	fee, err := s.engine.ballots.Fee(s.ctx)
	if err != nil {
		return valueobject.Asset{}, apperror.Wrap(err, apperror.ErrCodeUnavailable, "сервис голосования недоступен")
	}
	if err := fee.Require(valueobject.TLOS); err != nil {
		return valueobject.Asset{}, err
	}
	return fee, nil
}

func (s *session) notifyElection(election *entity.Election, elected, runoff []string) {
	event := ElectionEvent{ElectionID: election.ID, Elected: elected, Runoff: runoff}
	for _, name := range election.CandidateNames() {
		s.notify(name, EventElectionClosed, event)
	}
}
