package arbitration

func (e *Engine) routes() map[Action]handler {
	return map[Action]handler{
		ActionInit:       bind(selfOnly[InitParams], (*session).initContract),
		ActionSetConfig:  bind(adminOnly[SetConfigParams], (*session).setConfig),
		ActionSetAdmin:   bind(adminOnly[SetAdminParams], (*session).setAdmin),
		ActionSetVersion: bind(adminOrSelf[SetVersionParams], (*session).setVersion),

		ActionFileCase:     bind(byParam(func(p FileCaseParams) string { return p.Claimant }), (*session).fileCase),
		ActionAddClaim:     bind(byParam(func(p AddClaimParams) string { return p.Claimant }), (*session).addClaim),
		ActionUpdateClaim:  bind(byParam(func(p UpdateClaimParams) string { return p.Claimant }), (*session).updateClaim),
		ActionRemoveClaim:  bind(byParam(func(p RemoveClaimParams) string { return p.Claimant }), (*session).removeClaim),
		ActionShredCase:    bind(byParam(func(p ShredCaseParams) string { return p.Claimant }), (*session).shredCase),
		ActionReadyCase:    bind(byParam(func(p ReadyCaseParams) string { return p.Claimant }), (*session).readyCase),
		ActionCancelCase:   bind(caseClaimant(func(p CancelCaseParams) uint64 { return p.CaseID }), (*session).cancelCase),
		ActionRespondOffer: bind(caseClaimant(func(p RespondOfferParams) uint64 { return p.CaseID }), (*session).respondOffer),
		ActionWithdraw:     bind(byParam(func(p WithdrawParams) string { return p.Owner }), (*session).withdraw),

		ActionMakeOffer:    bind(byParam(func(p MakeOfferParams) string { return p.Arbitrator }), (*session).makeOffer),
		ActionDismissOffer: bind(offerArbitrator(func(p DismissOfferParams) uint64 { return p.OfferID }), (*session).dismissOffer),
		ActionNewArbStatus: bind(byParam(func(p NewArbStatusParams) string { return p.Arbitrator }), (*session).newArbStatus),
		ActionSetLangCodes: bind(byParam(func(p SetLangCodesParams) string { return p.Arbitrator }), (*session).setLangCodes),
		ActionRecuse:       bind(byParam(func(p RecuseParams) string { return p.AssignedArb }), (*session).recuse),
		ActionStartCase:    bind(byParam(func(p StartCaseParams) string { return p.AssignedArb }), (*session).startCase),
		ActionReviewClaim:  bind(byParam(func(p ReviewClaimParams) string { return p.AssignedArb }), (*session).reviewClaim),
		ActionSettleClaim:  bind(byParam(func(p SettleClaimParams) string { return p.AssignedArb }), (*session).settleClaim),
		ActionSetRuling:    bind(byParam(func(p SetRulingParams) string { return p.AssignedArb }), (*session).setRuling),
		ActionRespond:      bind(byParam(func(p RespondParams) string { return p.Respondant }), (*session).respond),

		ActionValidateCase: bind(adminOnly[ValidateCaseParams], (*session).validateCase),
		ActionForceRecusal: bind(adminOnly[ForceRecusalParams], (*session).forceRecusal),
		ActionDismissArb:   bind(adminOnly[DismissArbParams], (*session).dismissArb),

		ActionRegArb:       bind(byParam(func(p RegArbParams) string { return p.Nominee }), (*session).regArb),
		ActionUnregNominee: bind(byParam(func(p UnregNomineeParams) string { return p.Nominee }), (*session).unregNominee),
		ActionCandAddLead:  bind(byParam(func(p CandAddLeadParams) string { return p.Nominee }), (*session).candAddLead),
		ActionCandRmvLead:  bind(byParam(func(p CandRmvLeadParams) string { return p.Nominee }), (*session).candRmvLead),
		ActionInitElection: bind(adminOnly[InitElectionParams], (*session).initElection),
		ActionBeginVoting:  bind(adminOrSelf[BeginVotingParams], (*session).beginVotingAction),
		ActionEndElection:  bind(adminOrSelf[EndElectionParams], (*session).endElection),
	}
}

func byParam[P Params](principal func(P) string) func(*session, P) ([]string, error) {
	return func(_ *session, p P) ([]string, error) {
		return []string{principal(p)}, nil
	}
}

func selfOnly[P Params](s *session, _ P) ([]string, error) {
	return []string{s.self()}, nil
}

func adminOnly[P Params](s *session, _ P) ([]string, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	return []string{cfg.Admin}, nil
}

func adminOrSelf[P Params](s *session, _ P) ([]string, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	return []string{cfg.Admin, s.self()}, nil
}

func caseClaimant[P Params](caseID func(P) uint64) func(*session, P) ([]string, error) {
	return func(s *session, p P) ([]string, error) {
		cf, err := s.loadCase(caseID(p))
		if err != nil {
			return nil, err
		}
		return []string{cf.Claimant}, nil
	}
}

func offerArbitrator[P Params](offerID func(P) uint64) func(*session, P) ([]string, error) {
	return func(s *session, p P) ([]string, error) {
		offer, err := s.tx.Offers().FindByID(s.ctx, offerID(p))
		if err != nil {
			return nil, err
		}
		return []string{offer.Arbitrator}, nil
	}
}
