package arbitration

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

func (s *session) regArb(p RegArbParams) (interface{}, error) {
	if _, err := s.config(); err != nil {
		return nil, err
	}
	if err := valueobject.ValidateContentLink(p.CredentialsLink); err != nil {
		return nil, err
	}
	nominee, err := s.findNominee(p.Nominee)
	if err != nil {
		return nil, err
	}
	if nominee != nil {
		return nil, apperror.ErrAlreadyApplicant
	}

	arb, err := s.findArbitrator(p.Nominee)
	if err != nil {
		return nil, err
	}
	if arb != nil {
		seated := arb.Status == valueobject.ArbitratorStatusAvailable || arb.Status == valueobject.ArbitratorStatusUnavailable
		if seated && !arb.TermExpired(s.now) {
			return nil, apperror.ErrStillSeated
		}
		if seated {
			arb.Status = valueobject.ArbitratorStatusSeatExpired
			if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
				return nil, err
			}
		}
	}

	nominee = entity.NewNominee(p.Nominee, p.CredentialsLink, s.now)
	if err := s.tx.Nominees().Save(s.ctx, nominee); err != nil {
		return nil, err
	}
	return nominee, nil
}

func (s *session) unregNominee(p UnregNomineeParams) (interface{}, error) {
	if _, err := s.tx.Nominees().FindByName(s.ctx, p.Nominee); err != nil {
		return nil, err
	}
	election, err := s.currentElection()
	if err != nil {
		return nil, err
	}
	if election != nil && !election.IsClosed() && election.HasCandidate(p.Nominee) {
		return nil, apperror.ErrIsCandidate
	}
	if err := s.tx.Nominees().Delete(s.ctx, p.Nominee); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *session) dismissArb(p DismissArbParams) (interface{}, error) {
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, p.Arbitrator)
	if err != nil {
		return nil, err
	}
	if arb.Status == valueobject.ArbitratorStatusRemoved {
		return nil, apperror.ErrAlreadyRemoved
	}
	if arb.Status == valueobject.ArbitratorStatusSeatExpired || arb.TermExpired(s.now) {
		return nil, apperror.ErrSeatExpired
	}
	arb.Status = valueobject.ArbitratorStatusRemoved

	if p.RemoveFromCases {
		openCases := append([]uint64(nil), arb.OpenCaseIDs...)
		for _, id := range openCases {
			cf, err := s.loadCase(id)
			if err != nil {
				return nil, err
			}
			// Дела вне диапазона самоотвода остаются в списке открытых.
			if !cf.Status.IsRecusable() || !cf.IsAssigned(arb.Name) {
				continue
			}
			if err := s.recuseCase(cf, arb, ""); err != nil {
				return nil, err
			}
		}
	}

	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}
	return arb, nil
}

func (s *session) newArbStatus(p NewArbStatusParams) (interface{}, error) {
	arb, err := s.activeArbitrator(p.Arbitrator)
	if err != nil {
		return nil, err
	}
	status, err := valueobject.NewSelectableArbitratorStatus(p.NewStatus)
	if err != nil {
		return nil, err
	}
	arb.Status = status
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}
	return arb, nil
}

func (s *session) setLangCodes(p SetLangCodesParams) (interface{}, error) {
	arb, err := s.activeArbitrator(p.Arbitrator)
	if err != nil {
		return nil, err
	}
	langs := make([]uint16, len(p.LangCodes))
	copy(langs, p.LangCodes)
	arb.Languages = langs
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}
	return arb, nil
}

// activeArbitrator загружает арбитра, который может менять свои настройки.
func (s *session) activeArbitrator(name string) (*entity.Arbitrator, error) {
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, name)
	if err != nil {
		return nil, err
	}
	if !arb.HoldsSeat() {
		return nil, apperror.ErrNotAvailable
	}
	if arb.TermExpired(s.now) {
		return nil, apperror.ErrTermExpired
	}
	return arb, nil
}

// availableSeats считает места, не занятые действующими арбитрами.
func (s *session) availableSeats() (uint8, error) {
	cfg, err := s.config()
	if err != nil {
		return 0, err
	}
	arbs, err := s.tx.Arbitrators().List(s.ctx)
	if err != nil {
		return 0, err
	}
	occupied := 0
	for _, arb := range arbs {
		if arb.HoldsSeat() && !arb.TermExpired(s.now) {
			occupied++
		}
	}
	free := int(cfg.MaxElectedArbitrators) - occupied
	if free <= 0 {
		return 0, apperror.ErrNoSeatsAvailable
	}
	if free > 255 {
		free = 255
	}
	return uint8(free), nil
}

// promote назначает номинанта арбитром на новый срок и удаляет его заявку.
func (s *session) promote(name string) error {
	cfg, err := s.config()
	if err != nil {
		return err
	}
	nominee, err := s.findNominee(name)
	if err != nil {
		return err
	}
	credentials := ""
	if nominee != nil {
		credentials = nominee.CredentialsLink
	}

	arb, err := s.findArbitrator(name)
	if err != nil {
		return err
	}
	if arb == nil {
		arb = entity.NewArbitrator(name, credentials, s.now, cfg.ArbitratorTermLength)
	} else {
		arb.Seat(credentials, s.now, cfg.ArbitratorTermLength)
	}
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return err
	}
	if nominee != nil {
		if err := s.tx.Nominees().Delete(s.ctx, name); err != nil {
			return err
		}
	}
	s.notify(name, EventArbitratorSeated, arb)
	return nil
}
