package arbitration

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

func (s *session) makeOffer(p MakeOfferParams) (interface{}, error) {
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, p.Arbitrator)
	if err != nil {
		return nil, err
	}
	if err := arb.CheckAvailable(s.now); err != nil {
		return nil, err
	}
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusAwaitingArbs); err != nil {
		return nil, err
	}
	if s.now.After(cf.SendingOffersUntil) {
		return nil, apperror.ErrOffersClosed
	}
	if cf.Claimant == p.Arbitrator || cf.Respondant == p.Arbitrator {
		return nil, apperror.ErrArbitratorIsCaseParty
	}
	if err := p.HourlyRate.Require(valueobject.USD); err != nil {
		return nil, err
	}
	if !p.HourlyRate.IsPositive() {
		return nil, apperror.ErrInvalidAsset
	}
	if p.EstimatedHours < 1 {
		return nil, apperror.ErrInvalidHours
	}

	if p.OfferID == NewOfferID {
		return s.createOffer(cf, p)
	}
	if p.OfferID < 0 {
		return nil, apperror.ErrOfferNotFound
	}

	offer, err := s.tx.Offers().FindByID(s.ctx, uint64(p.OfferID))
	if err != nil {
		return nil, err
	}
	if offer.CaseID != cf.ID {
		return nil, apperror.ErrWrongCase
	}
	if offer.Arbitrator != p.Arbitrator {
		return nil, apperror.ErrNotOfferOwner
	}
	if err := offer.RequirePending(); err != nil {
		return nil, err
	}
	offer.HourlyRate = p.HourlyRate
	offer.EstimatedHours = p.EstimatedHours
	if err := s.tx.Offers().Update(s.ctx, offer); err != nil {
		return nil, err
	}
	return MakeOfferResult{OfferID: offer.ID}, nil
}

func (s *session) createOffer(cf *entity.CaseFile, p MakeOfferParams) (interface{}, error) {
	offers, err := s.tx.Offers().FindByCaseID(s.ctx, cf.ID)
	if err != nil {
		return nil, err
	}
	for _, o := range offers {
		if o.Arbitrator == p.Arbitrator && o.Status != valueobject.OfferStatusDismissed {
			return nil, apperror.ErrDuplicateOffer
		}
	}

	id, err := s.tx.Offers().NextID(s.ctx)
	if err != nil {
		return nil, err
	}
	offer := entity.NewOffer(id, cf.ID, p.Arbitrator, p.HourlyRate, p.EstimatedHours)
	if err := s.tx.Offers().Create(s.ctx, offer); err != nil {
		return nil, err
	}
	cf.NumberOffers++
	cf.UpdatedAt = s.now
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notify(cf.Claimant, EventOfferReceived, offerEvent(offer))
	return MakeOfferResult{OfferID: id}, nil
}

func (s *session) dismissOffer(p DismissOfferParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusAwaitingArbs); err != nil {
		return nil, err
	}
	offer, err := s.tx.Offers().FindByID(s.ctx, p.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.CaseID != cf.ID {
		return nil, apperror.ErrWrongCase
	}
	if err := offer.RequirePending(); err != nil {
		return nil, err
	}
	offer.Status = valueobject.OfferStatusDismissed
	if err := s.tx.Offers().Update(s.ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *session) respondOffer(p RespondOfferParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusAwaitingArbs); err != nil {
		return nil, err
	}
	offer, err := s.tx.Offers().FindByID(s.ctx, p.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.CaseID != cf.ID {
		return nil, apperror.ErrWrongCase
	}
	if err := offer.RequirePending(); err != nil {
		return nil, err
	}

	if !p.Accept {
		offer.Status = valueobject.OfferStatusRejected
		if err := s.tx.Offers().Update(s.ctx, offer); err != nil {
			return nil, err
		}
		s.notify(offer.Arbitrator, EventOfferAnswered, offerEvent(offer))
		return offer, nil
	}

	arb, err := s.tx.Arbitrators().FindByName(s.ctx, offer.Arbitrator)
	if err != nil {
		return nil, err
	}
	if err := arb.CheckActive(s.now); err != nil {
		return nil, err
	}
	costUSD, err := offer.TotalCost()
	if err != nil {
		return nil, err
	}
	cost, err := s.usdToTLOS(costUSD)
	if err != nil {
		return nil, err
	}
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}
	if err := funds.Escrow(s.ctx, cf.Claimant, cost); err != nil {
		return nil, err
	}

	offers, err := s.tx.Offers().FindByCaseID(s.ctx, cf.ID)
	if err != nil {
		return nil, err
	}
	for _, o := range offers {
		if o.ID == offer.ID || !o.IsPending() {
			continue
		}
		o.Status = valueobject.OfferStatusRejected
		if err := s.tx.Offers().Update(s.ctx, o); err != nil {
			return nil, err
		}
		s.notify(o.Arbitrator, EventOfferAnswered, offerEvent(o))
	}
	offer.Status = valueobject.OfferStatusAccepted
	if err := s.tx.Offers().Update(s.ctx, offer); err != nil {
		return nil, err
	}

	cf.Arbitrators = []string{offer.Arbitrator}
	cf.ArbitratorCostTLOS = cost
	if err := cf.TransitionTo(valueobject.CaseStatusArbsAssigned, s.now); err != nil {
		return nil, err
	}
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	arb.AddOpenCase(cf.ID)
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}

	s.notify(offer.Arbitrator, EventOfferAnswered, offerEvent(offer))
	s.notifyCase(cf)
	return cf, nil
}

func offerEvent(o *entity.Offer) OfferEvent {
	return OfferEvent{CaseID: o.CaseID, OfferID: o.ID, Arbitrator: o.Arbitrator, Status: o.Status}
}
