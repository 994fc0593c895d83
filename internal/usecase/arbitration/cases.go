package arbitration

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

const day = 24 * time.Hour

func (s *session) fileCase(p FileCaseParams) (interface{}, error) {
	if _, err := s.config(); err != nil {
		return nil, err
	}
	category, err := valueobject.NewClaimCategory(p.ClaimCategory)
	if err != nil {
		return nil, err
	}
	if err := valueobject.ValidateContentLink(p.ClaimLink); err != nil {
		return nil, err
	}
	if p.Respondant != "" {
		if p.Respondant == p.Claimant {
			return nil, apperror.New(apperror.ErrCodeValidation, "истец не может быть ответчиком")
		}
		exists, err := s.accountExists(p.Respondant)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.ErrRespondantMustBeAccount
		}
	}

	caseID, err := s.tx.Cases().NextID(s.ctx)
	if err != nil {
		return nil, err
	}
	claimID, err := s.tx.Claims().NextID(s.ctx)
	if err != nil {
		return nil, err
	}

	cf := entity.NewCaseFile(caseID, p.Claimant, p.Respondant, p.LangCodes, s.now)
	cf.NumberClaims = 1
	if err := s.tx.Cases().Create(s.ctx, cf); err != nil {
		return nil, err
	}
	if err := s.tx.Claims().Create(s.ctx, entity.NewClaim(claimID, caseID, p.ClaimLink, category)); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	return FileCaseResult{CaseID: caseID, ClaimID: claimID}, nil
}

func (s *session) addClaim(p AddClaimParams) (interface{}, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	cf, err := s.claimantCase(p.CaseID, p.Claimant, valueobject.CaseStatusSetup)
	if err != nil {
		return nil, err
	}
	if cf.NumberClaims >= cfg.MaxClaimsPerCase {
		return nil, apperror.ErrTooManyClaims
	}
	category, err := valueobject.NewClaimCategory(p.ClaimCategory)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueLink(cf.ID, 0, p.ClaimLink, false); err != nil {
		return nil, err
	}

	claimID, err := s.tx.Claims().NextID(s.ctx)
	if err != nil {
		return nil, err
	}
	if err := s.tx.Claims().Create(s.ctx, entity.NewClaim(claimID, cf.ID, p.ClaimLink, category)); err != nil {
		return nil, err
	}
	cf.NumberClaims++
	cf.UpdatedAt = s.now
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	return AddClaimResult{ClaimID: claimID}, nil
}

func (s *session) updateClaim(p UpdateClaimParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if cf.Status != valueobject.CaseStatusSetup && cf.Status != valueobject.CaseStatusInvestigation {
		return nil, apperror.ErrCaseWrongStatus
	}
	if !cf.IsClaimant(p.Claimant) {
		return nil, apperror.ErrNotClaimant
	}
	claim, err := s.loadClaim(cf.ID, p.ClaimID)
	if err != nil {
		return nil, err
	}
	if !claim.IsEditableByClaimant() {
		return nil, apperror.ErrClaimNotEditable
	}
	if err := s.checkUniqueLink(cf.ID, claim.ID, p.ClaimLink, true); err != nil {
		return nil, err
	}

	claim.Summary = p.ClaimLink
	claim.ClaimInfoNeeded = false
	if err := s.tx.Claims().Update(s.ctx, claim); err != nil {
		return nil, err
	}
	cf.UpdatedAt = s.now
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *session) removeClaim(p RemoveClaimParams) (interface{}, error) {
	cf, err := s.claimantCase(p.CaseID, p.Claimant, valueobject.CaseStatusSetup)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadClaim(cf.ID, p.ClaimID); err != nil {
		return nil, err
	}
	if err := s.tx.Claims().Delete(s.ctx, cf.ID, p.ClaimID); err != nil {
		return nil, err
	}
	cf.NumberClaims--
	cf.UpdatedAt = s.now
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	return nil, nil
}

// shredCase - единственное физическое удаление дела вместе с исками.
func (s *session) shredCase(p ShredCaseParams) (interface{}, error) {
	cf, err := s.claimantCase(p.CaseID, p.Claimant, valueobject.CaseStatusSetup)
	if err != nil {
		return nil, err
	}
	if err := s.tx.Claims().DeleteByCaseID(s.ctx, cf.ID); err != nil {
		return nil, err
	}
	if err := s.tx.Cases().Delete(s.ctx, cf.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *session) cancelCase(p CancelCaseParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusAwaitingArbs); err != nil {
		return nil, err
	}
	if cf.FeePaidTLOS.IsPositive() {
		funds, err := s.funds()
		if err != nil {
			return nil, err
		}
		// После первого предложения арбитра сбор остаётся контракту.
		if cf.NumberOffers == 0 {
			err = funds.Payout(s.ctx, cf.Claimant, cf.FeePaidTLOS)
		} else {
			err = funds.Release(cf.FeePaidTLOS)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := cf.TransitionTo(valueobject.CaseStatusCancelled, s.now); err != nil {
		return nil, err
	}
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	return cf, nil
}

func (s *session) readyCase(p ReadyCaseParams) (interface{}, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	cf, err := s.claimantCase(p.CaseID, p.Claimant, valueobject.CaseStatusSetup)
	if err != nil {
		return nil, err
	}
	if cf.NumberClaims < 1 {
		return nil, apperror.ErrNoClaims
	}

	fee, err := s.usdToTLOS(cfg.FeeUSD)
	if err != nil {
		return nil, err
	}
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}
	if err := funds.Escrow(s.ctx, cf.Claimant, fee); err != nil {
		return nil, err
	}

	cf.FeePaidTLOS = fee
	cf.SendingOffersUntil = s.now.Add(cfg.AcceptingOffersDuration)
	if err := cf.TransitionTo(valueobject.CaseStatusAwaitingArbs, s.now); err != nil {
		return nil, err
	}
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	return cf, nil
}

func (s *session) startCase(p StartCaseParams) (interface{}, error) {
	cf, err := s.arbitratorCase(p.CaseID, p.AssignedArb, valueobject.CaseStatusArbsAssigned)
	if err != nil {
		return nil, err
	}

	if cf.HasRespondant() {
		if p.NumberDaysRespondant < 1 {
			return nil, apperror.ErrMinOneDay
		}
		claims, err := s.tx.Claims().FindByCaseID(s.ctx, cf.ID)
		if err != nil {
			return nil, err
		}
		limit := s.now.Add(time.Duration(p.NumberDaysRespondant) * day)
		for _, claim := range claims {
			claim.ResponseInfoNeeded = true
			claim.ResponseInfoRequired = p.ResponseInfoRequired
			claim.RespondantLimitTime = limit
			if err := s.tx.Claims().Update(s.ctx, claim); err != nil {
				return nil, err
			}
		}
	}

	if err := cf.TransitionTo(valueobject.CaseStatusInvestigation, s.now); err != nil {
		return nil, err
	}
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	return cf, nil
}

func (s *session) respond(p RespondParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusInvestigation); err != nil {
		return nil, err
	}
	if !cf.HasRespondant() {
		return nil, apperror.ErrNoRespondant
	}
	if cf.Respondant != p.Respondant {
		return nil, apperror.ErrNotRespondant
	}
	claim, err := s.loadClaim(cf.ID, p.ClaimID)
	if err != nil {
		return nil, err
	}
	if !claim.ResponseInfoNeeded {
		return nil, apperror.ErrNoResponseNeeded
	}
	if claim.Status != valueobject.ClaimStatusFiled {
		return nil, apperror.ErrWrongClaimStatus
	}
	if err := valueobject.ValidateContentLink(p.ResponseLink); err != nil {
		return nil, err
	}

	claim.ResponseLink = p.ResponseLink
	claim.Status = valueobject.ClaimStatusResponded
	claim.ResponseInfoNeeded = false
	if err := s.tx.Claims().Update(s.ctx, claim); err != nil {
		return nil, err
	}
	cf.UpdatedAt = s.now
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *session) reviewClaim(p ReviewClaimParams) (interface{}, error) {
	cf, err := s.arbitratorCase(p.CaseID, p.AssignedArb, valueobject.CaseStatusInvestigation)
	if err != nil {
		return nil, err
	}
	claim, err := s.loadClaim(cf.ID, p.ClaimID)
	if err != nil {
		return nil, err
	}
	if !claim.IsOpen() {
		return nil, apperror.ErrWrongClaimStatus
	}
	if !p.ClaimInfoNeeded && !p.ResponseInfoNeeded {
		return nil, apperror.ErrNothingToReview
	}
	if p.ClaimInfoNeeded && p.NumberDaysClaimant < 1 {
		return nil, apperror.ErrMinOneDay
	}
	if p.ResponseInfoNeeded {
		if !cf.HasRespondant() {
			return nil, apperror.ErrNoRespondant
		}
		if p.NumberDaysRespondant < 1 {
			return nil, apperror.ErrMinOneDay
		}
	}

	if p.ClaimInfoNeeded {
		claim.ClaimInfoNeeded = true
		claim.ClaimInfoRequired = p.ClaimInfoRequired
		claim.ClaimantLimitTime = s.extend(claim.ClaimantLimitTime, p.NumberDaysClaimant)
		s.notify(cf.Claimant, EventInfoRequested, ClaimInfoEvent{
			CaseID: cf.ID, ClaimID: claim.ID, Required: claim.ClaimInfoRequired, Deadline: claim.ClaimantLimitTime,
		})
	}
	if p.ResponseInfoNeeded {
		claim.ResponseInfoNeeded = true
		claim.ResponseInfoRequired = p.ResponseInfoRequired
		claim.RespondantLimitTime = s.extend(claim.RespondantLimitTime, p.NumberDaysRespondant)
		s.notify(cf.Respondant, EventInfoRequested, ClaimInfoEvent{
			CaseID: cf.ID, ClaimID: claim.ID, Required: claim.ResponseInfoRequired, Deadline: claim.RespondantLimitTime,
		})
	}
	if err := s.tx.Claims().Update(s.ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *session) settleClaim(p SettleClaimParams) (interface{}, error) {
	cf, err := s.arbitratorCase(p.CaseID, p.AssignedArb, valueobject.CaseStatusInvestigation)
	if err != nil {
		return nil, err
	}
	claim, err := s.loadClaim(cf.ID, p.ClaimID)
	if err != nil {
		return nil, err
	}
	// Решение по уже урегулированному иску можно пересмотреть до вынесения решения по делу.
	if cf.HasRespondant() && claim.RespondantHasTime(s.now) {
		return nil, apperror.ErrRespondantStillHasTime
	}
	if claim.ClaimantHasTime(s.now) {
		return nil, apperror.ErrClaimantStillHasTime
	}
	if err := valueobject.ValidateContentLink(p.DecisionLink); err != nil {
		return nil, err
	}

	claim.Settle(p.DecisionLink, p.Accept)
	if err := s.tx.Claims().Update(s.ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *session) setRuling(p SetRulingParams) (interface{}, error) {
	cf, err := s.arbitratorCase(p.CaseID, p.AssignedArb, valueobject.CaseStatusInvestigation)
	if err != nil {
		return nil, err
	}
	claims, err := s.tx.Claims().FindByCaseID(s.ctx, cf.ID)
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		if !claim.Status.IsResolved() {
			return nil, apperror.ErrUnresolvedClaims
		}
	}
	if err := valueobject.ValidateContentLink(p.CaseRuling); err != nil {
		return nil, err
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}

	cf.CaseRuling = p.CaseRuling
	if err := cf.TransitionTo(valueobject.CaseStatusDecision, s.now); err != nil {
		return nil, err
	}
	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	s.notify(cfg.Admin, EventRulingSubmitted, CaseEvent{CaseID: cf.ID, Status: cf.Status, StatusName: cf.Status.String()})
	return cf, nil
}

func (s *session) validateCase(p ValidateCaseParams) (interface{}, error) {
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(valueobject.CaseStatusDecision); err != nil {
		return nil, err
	}
	arbName, ok := cf.AssignedArbitrator()
	if !ok {
		return nil, apperror.ErrNotAssignedArbitrator
	}
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, arbName)
	if err != nil {
		return nil, err
	}
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	if p.Proceed {
		if err := funds.Release(cf.FeePaidTLOS); err != nil {
			return nil, err
		}
		if err := funds.Payout(s.ctx, arbName, cf.ArbitratorCostTLOS); err != nil {
			return nil, err
		}
		if err := cf.TransitionTo(valueobject.CaseStatusResolved, s.now); err != nil {
			return nil, err
		}
	} else {
		if err := s.refundClaimant(cf); err != nil {
			return nil, err
		}
		if err := cf.TransitionTo(valueobject.CaseStatusDismissed, s.now); err != nil {
			return nil, err
		}
		arb.CloseCase(cf.ID)
		if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
			return nil, err
		}
	}

	if err := s.saveCase(cf); err != nil {
		return nil, err
	}
	s.notifyCase(cf)
	return cf, nil
}

func (s *session) recuse(p RecuseParams) (interface{}, error) {
	if err := valueobject.ValidateRationale(p.Rationale); err != nil {
		return nil, err
	}
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if !cf.Status.IsRecusable() {
		return nil, apperror.ErrCannotRecuse
	}
	if !cf.IsAssigned(p.AssignedArb) {
		return nil, apperror.ErrNotAssignedArbitrator
	}
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, p.AssignedArb)
	if err != nil {
		return nil, err
	}
	if err := s.recuseCase(cf, arb, p.Rationale); err != nil {
		return nil, err
	}
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}
	return cf, nil
}

func (s *session) forceRecusal(p ForceRecusalParams) (interface{}, error) {
	if err := valueobject.ValidateRationale(p.Rationale); err != nil {
		return nil, err
	}
	cf, err := s.loadCase(p.CaseID)
	if err != nil {
		return nil, err
	}
	if !cf.Status.IsRecusable() {
		return nil, apperror.ErrCannotRecuse
	}
	if !cf.IsAssigned(p.Arbitrator) {
		return nil, apperror.ErrNotAssignedArbitrator
	}
	arb, err := s.tx.Arbitrators().FindByName(s.ctx, p.Arbitrator)
	if err != nil {
		return nil, err
	}
	if err := s.recuseCase(cf, arb, p.Rationale); err != nil {
		return nil, err
	}
	if err := s.tx.Arbitrators().Save(s.ctx, arb); err != nil {
		return nil, err
	}
	return cf, nil
}

// recuseCase возвращает истцу удерживаемые средства и переводит дело в статус самоотвода.
// Арбитра сохраняет вызывающая сторона.
func (s *session) recuseCase(cf *entity.CaseFile, arb *entity.Arbitrator, rationale string) error {
	if err := s.refundClaimant(cf); err != nil {
		return err
	}
	cf.Recusal = rationale
	if err := cf.TransitionTo(valueobject.CaseStatusRecused, s.now); err != nil {
		return err
	}
	if err := s.saveCase(cf); err != nil {
		return err
	}
	arb.RecuseCase(cf.ID)
	s.notifyCase(cf)
	return nil
}

// refundClaimant выплачивает истцу сбор и стоимость работы арбитра из резерва.
func (s *session) refundClaimant(cf *entity.CaseFile) error {
	held, err := cf.HeldFunds()
	if err != nil {
		return err
	}
	if !held.IsPositive() {
		return nil
	}
	funds, err := s.funds()
	if err != nil {
		return err
	}
	return funds.Payout(s.ctx, cf.Claimant, held)
}

func (s *session) claimantCase(caseID uint64, claimant string, status valueobject.CaseStatus) (*entity.CaseFile, error) {
	cf, err := s.loadCase(caseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(status); err != nil {
		return nil, err
	}
	if !cf.IsClaimant(claimant) {
		return nil, apperror.ErrNotClaimant
	}
	return cf, nil
}

func (s *session) arbitratorCase(caseID uint64, arbitrator string, status valueobject.CaseStatus) (*entity.CaseFile, error) {
	cf, err := s.loadCase(caseID)
	if err != nil {
		return nil, err
	}
	if err := cf.RequireStatus(status); err != nil {
		return nil, err
	}
	if !cf.IsAssigned(arbitrator) {
		return nil, apperror.ErrNotAssignedArbitrator
	}
	return cf, nil
}

// checkUniqueLink проверяет формат ссылки и что её не использует другой иск дела.
func (s *session) checkUniqueLink(caseID, claimID uint64, link string, skipSelf bool) error {
	if err := valueobject.ValidateContentLink(link); err != nil {
		return err
	}
	claims, err := s.tx.Claims().FindByCaseID(s.ctx, caseID)
	if err != nil {
		return err
	}
	for _, claim := range claims {
		if skipSelf && claim.ID == claimID {
			continue
		}
		if claim.Summary == link {
			return apperror.ErrDuplicateLink
		}
	}
	return nil
}

func (s *session) extend(limit time.Time, days uint8) time.Time {
	from := s.now
	if limit.After(from) {
		from = limit
	}
	return from.Add(time.Duration(days) * day)
}
