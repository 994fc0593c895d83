package persistence

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

// Строки таблиц PostgreSQL. Суммы хранятся строкой "15.3846 TLOS", длительности в секундах.

type configRow struct {
	Admin                   string `db:"admin"`
	ContractVersion         string `db:"contract_version"`
	MaxElectedArbs          int64  `db:"max_elected_arbs"`
	ElectionVotingDuration  int64  `db:"election_voting_duration"`
	RunoffVotingDuration    int64  `db:"runoff_voting_duration"`
	AddCandidatesDuration   int64  `db:"add_candidates_duration"`
	ArbTermLength           int64  `db:"arb_term_length"`
	AcceptingOffersDuration int64  `db:"accepting_offers_duration"`
	CurrentElectionID       int64  `db:"current_election_id"`
	FeeUSD                  string `db:"fee_usd"`
	MaxClaimsPerCase        int64  `db:"max_claims_per_case"`
	AvailableFunds          string `db:"available_funds"`
	ReservedFunds           string `db:"reserved_funds"`
}

func newConfigRow(c *entity.Config) configRow {
	return configRow{
		Admin:                   c.Admin,
		ContractVersion:         c.ContractVersion,
		MaxElectedArbs:          int64(c.MaxElectedArbitrators),
		ElectionVotingDuration:  durationSeconds(c.ElectionVotingDuration),
		RunoffVotingDuration:    durationSeconds(c.RunoffVotingDuration),
		AddCandidatesDuration:   durationSeconds(c.AddCandidatesDuration),
		ArbTermLength:           durationSeconds(c.ArbitratorTermLength),
		AcceptingOffersDuration: durationSeconds(c.AcceptingOffersDuration),
		CurrentElectionID:       int64(c.CurrentElectionID),
		FeeUSD:                  c.FeeUSD.String(),
		MaxClaimsPerCase:        int64(c.MaxClaimsPerCase),
		AvailableFunds:          c.AvailableFunds.String(),
		ReservedFunds:           c.ReservedFunds.String(),
	}
}

func (r configRow) toEntity() (*entity.Config, error) {
	fee, err := valueobject.ParseAsset(r.FeeUSD)
	if err != nil {
		return nil, err
	}
	available, err := valueobject.ParseAsset(r.AvailableFunds)
	if err != nil {
		return nil, err
	}
	reserved, err := valueobject.ParseAsset(r.ReservedFunds)
	if err != nil {
		return nil, err
	}
	return &entity.Config{
		Admin:                   r.Admin,
		ContractVersion:         r.ContractVersion,
		MaxElectedArbitrators:   uint16(r.MaxElectedArbs),
		ElectionVotingDuration:  secondsDuration(r.ElectionVotingDuration),
		RunoffVotingDuration:    secondsDuration(r.RunoffVotingDuration),
		AddCandidatesDuration:   secondsDuration(r.AddCandidatesDuration),
		ArbitratorTermLength:    secondsDuration(r.ArbTermLength),
		AcceptingOffersDuration: secondsDuration(r.AcceptingOffersDuration),
		CurrentElectionID:       uint64(r.CurrentElectionID),
		FeeUSD:                  fee,
		MaxClaimsPerCase:        uint8(r.MaxClaimsPerCase),
		AvailableFunds:          available,
		ReservedFunds:           reserved,
	}, nil
}

type accountRow struct {
	Owner   string `db:"owner"`
	Balance string `db:"balance"`
}

func (r accountRow) toEntity() (*entity.Account, error) {
	balance, err := valueobject.ParseAsset(r.Balance)
	if err != nil {
		return nil, err
	}
	return entity.NewAccount(r.Owner, balance), nil
}

type caseRow struct {
	ID                 int64          `db:"id"`
	Status             int64          `db:"status"`
	Claimant           string         `db:"claimant"`
	Respondant         string         `db:"respondant"`
	Arbitrators        pq.StringArray `db:"arbitrators"`
	Approvals          pq.StringArray `db:"approvals"`
	RequiredLangs      pq.Int64Array  `db:"required_langs"`
	NumberClaims       int64          `db:"number_claims"`
	NumberOffers       int64          `db:"number_offers"`
	CaseRuling         string         `db:"case_ruling"`
	Recusal            string         `db:"recusal"`
	UpdatedAt          time.Time      `db:"updated_at"`
	FeePaidTLOS        string         `db:"fee_paid_tlos"`
	ArbitratorCostTLOS string         `db:"arbitrator_cost_tlos"`
	SendingOffersUntil time.Time      `db:"sending_offers_until"`
}

func newCaseRow(c *entity.CaseFile) caseRow {
	return caseRow{
		ID:                 int64(c.ID),
		Status:             int64(c.Status),
		Claimant:           c.Claimant,
		Respondant:         c.Respondant,
		Arbitrators:        pq.StringArray(nonNilStrings(c.Arbitrators)),
		Approvals:          pq.StringArray(nonNilStrings(c.Approvals)),
		RequiredLangs:      langsToArray(c.RequiredLangs),
		NumberClaims:       int64(c.NumberClaims),
		NumberOffers:       int64(c.NumberOffers),
		CaseRuling:         c.CaseRuling,
		Recusal:            c.Recusal,
		UpdatedAt:          c.UpdatedAt,
		FeePaidTLOS:        c.FeePaidTLOS.String(),
		ArbitratorCostTLOS: c.ArbitratorCostTLOS.String(),
		SendingOffersUntil: c.SendingOffersUntil,
	}
}

func (r caseRow) toEntity() (*entity.CaseFile, error) {
	fee, err := valueobject.ParseAsset(r.FeePaidTLOS)
	if err != nil {
		return nil, err
	}
	cost, err := valueobject.ParseAsset(r.ArbitratorCostTLOS)
	if err != nil {
		return nil, err
	}
	return &entity.CaseFile{
		ID:                 uint64(r.ID),
		Status:             valueobject.CaseStatus(r.Status),
		Claimant:           r.Claimant,
		Respondant:         r.Respondant,
		Arbitrators:        nonNilStrings(r.Arbitrators),
		Approvals:          nonNilStrings(r.Approvals),
		RequiredLangs:      arrayToLangs(r.RequiredLangs),
		NumberClaims:       uint8(r.NumberClaims),
		NumberOffers:       uint8(r.NumberOffers),
		CaseRuling:         r.CaseRuling,
		Recusal:            r.Recusal,
		UpdatedAt:          r.UpdatedAt.UTC(),
		FeePaidTLOS:        fee,
		ArbitratorCostTLOS: cost,
		SendingOffersUntil: r.SendingOffersUntil.UTC(),
	}, nil
}

type claimRow struct {
	ID                   int64     `db:"id"`
	CaseID               int64     `db:"case_id"`
	Summary              string    `db:"summary"`
	DecisionLink         string    `db:"decision_link"`
	ResponseLink         string    `db:"response_link"`
	Status               int64     `db:"status"`
	Category             int64     `db:"category"`
	ClaimantLimitTime    time.Time `db:"claimant_limit_time"`
	RespondantLimitTime  time.Time `db:"respondant_limit_time"`
	ClaimInfoNeeded      bool      `db:"claim_info_needed"`
	ResponseInfoNeeded   bool      `db:"response_info_needed"`
	ClaimInfoRequired    string    `db:"claim_info_required"`
	ResponseInfoRequired string    `db:"response_info_required"`
}

func newClaimRow(c *entity.Claim) claimRow {
	return claimRow{
		ID:                   int64(c.ID),
		CaseID:               int64(c.CaseID),
		Summary:              c.Summary,
		DecisionLink:         c.DecisionLink,
		ResponseLink:         c.ResponseLink,
		Status:               int64(c.Status),
		Category:             int64(c.Category),
		ClaimantLimitTime:    c.ClaimantLimitTime,
		RespondantLimitTime:  c.RespondantLimitTime,
		ClaimInfoNeeded:      c.ClaimInfoNeeded,
		ResponseInfoNeeded:   c.ResponseInfoNeeded,
		ClaimInfoRequired:    c.ClaimInfoRequired,
		ResponseInfoRequired: c.ResponseInfoRequired,
	}
}

func (r claimRow) toEntity() *entity.Claim {
	return &entity.Claim{
		ID:                   uint64(r.ID),
		CaseID:               uint64(r.CaseID),
		Summary:              r.Summary,
		DecisionLink:         r.DecisionLink,
		ResponseLink:         r.ResponseLink,
		Status:               valueobject.ClaimStatus(r.Status),
		Category:             valueobject.ClaimCategory(r.Category),
		ClaimantLimitTime:    r.ClaimantLimitTime.UTC(),
		RespondantLimitTime:  r.RespondantLimitTime.UTC(),
		ClaimInfoNeeded:      r.ClaimInfoNeeded,
		ResponseInfoNeeded:   r.ResponseInfoNeeded,
		ClaimInfoRequired:    r.ClaimInfoRequired,
		ResponseInfoRequired: r.ResponseInfoRequired,
	}
}

type offerRow struct {
	ID             int64  `db:"id"`
	CaseID         int64  `db:"case_id"`
	Status         int64  `db:"status"`
	EstimatedHours int64  `db:"estimated_hours"`
	Arbitrator     string `db:"arbitrator"`
	HourlyRate     string `db:"hourly_rate"`
}

func (r offerRow) toEntity() (*entity.Offer, error) {
	rate, err := valueobject.ParseAsset(r.HourlyRate)
	if err != nil {
		return nil, err
	}
	offer := entity.NewOffer(uint64(r.ID), uint64(r.CaseID), r.Arbitrator, rate, uint8(r.EstimatedHours))
	offer.Status = valueobject.OfferStatus(r.Status)
	return offer, nil
}

type arbitratorRow struct {
	Name            string        `db:"name"`
	Status          int64         `db:"status"`
	OpenCaseIDs     pq.Int64Array `db:"open_case_ids"`
	ClosedCaseIDs   pq.Int64Array `db:"closed_case_ids"`
	RecusedCaseIDs  pq.Int64Array `db:"recused_case_ids"`
	CredentialsLink string        `db:"credentials_link"`
	ElectedTime     time.Time     `db:"elected_time"`
	TermExpiration  time.Time     `db:"term_expiration"`
	Languages       pq.Int64Array `db:"languages"`
}

func newArbitratorRow(a *entity.Arbitrator) arbitratorRow {
	return arbitratorRow{
		Name:            a.Name,
		Status:          int64(a.Status),
		OpenCaseIDs:     idsToArray(a.OpenCaseIDs),
		ClosedCaseIDs:   idsToArray(a.ClosedCaseIDs),
		RecusedCaseIDs:  idsToArray(a.RecusedCaseIDs),
		CredentialsLink: a.CredentialsLink,
		ElectedTime:     a.ElectedTime,
		TermExpiration:  a.TermExpiration,
		Languages:       langsToArray(a.Languages),
	}
}

func (r arbitratorRow) toEntity() *entity.Arbitrator {
	return &entity.Arbitrator{
		Name:            r.Name,
		Status:          valueobject.ArbitratorStatus(r.Status),
		OpenCaseIDs:     arrayToIDs(r.OpenCaseIDs),
		ClosedCaseIDs:   arrayToIDs(r.ClosedCaseIDs),
		RecusedCaseIDs:  arrayToIDs(r.RecusedCaseIDs),
		CredentialsLink: r.CredentialsLink,
		ElectedTime:     r.ElectedTime.UTC(),
		TermExpiration:  r.TermExpiration.UTC(),
		Languages:       arrayToLangs(r.Languages),
	}
}

type nomineeRow struct {
	Name            string    `db:"name"`
	CredentialsLink string    `db:"credentials_link"`
	ApplicationTime time.Time `db:"application_time"`
}

type electionRow struct {
	ID                 int64     `db:"id"`
	BallotName         string    `db:"ballot_name"`
	InfoURL            string    `db:"info_url"`
	Candidates         []byte    `db:"candidates"`
	AvailableSeats     int64     `db:"available_seats"`
	BeginAddCandidates time.Time `db:"begin_add_candidates_ts"`
	EndAddCandidates   time.Time `db:"end_add_candidates_ts"`
	BeginVoting        time.Time `db:"begin_voting_ts"`
	EndVoting          time.Time `db:"end_voting_ts"`
	Status             int64     `db:"status"`
}

func newElectionRow(e *entity.Election) (electionRow, error) {
	candidates := e.Candidates
	if candidates == nil {
		candidates = []entity.Candidate{}
	}
	encoded, err := json.Marshal(candidates)
	if err != nil {
		return electionRow{}, err
	}
	return electionRow{
		ID:                 int64(e.ID),
		BallotName:         e.BallotName,
		InfoURL:            e.InfoURL,
		Candidates:         encoded,
		AvailableSeats:     int64(e.AvailableSeats),
		BeginAddCandidates: e.BeginAddCandidates,
		EndAddCandidates:   e.EndAddCandidates,
		BeginVoting:        e.BeginVoting,
		EndVoting:          e.EndVoting,
		Status:             int64(e.Status),
	}, nil
}

func (r electionRow) toEntity() (*entity.Election, error) {
	candidates := []entity.Candidate{}
	if len(r.Candidates) > 0 {
		if err := json.Unmarshal(r.Candidates, &candidates); err != nil {
			return nil, err
		}
	}
	return &entity.Election{
		ID:                 uint64(r.ID),
		BallotName:         r.BallotName,
		InfoURL:            r.InfoURL,
		Candidates:         candidates,
		AvailableSeats:     uint8(r.AvailableSeats),
		BeginAddCandidates: r.BeginAddCandidates.UTC(),
		EndAddCandidates:   r.EndAddCandidates.UTC(),
		BeginVoting:        r.BeginVoting.UTC(),
		EndVoting:          r.EndVoting.UTC(),
		Status:             valueobject.ElectionStatus(r.Status),
	}, nil
}

type transferRow struct {
	ID        uuid.UUID    `db:"id"`
	Kind      string       `db:"kind"`
	From      string       `db:"from_account"`
	To        string       `db:"to_account"`
	Quantity  string       `db:"quantity"`
	Memo      string       `db:"memo"`
	Status    string       `db:"status"`
	Attempts  int          `db:"attempts"`
	LastError string       `db:"last_error"`
	CreatedAt time.Time    `db:"created_at"`
	SentAt    sql.NullTime `db:"sent_at"`
}

func newTransferRow(t *entity.Transfer) transferRow {
	row := transferRow{
		ID:        t.ID,
		Kind:      string(t.Kind),
		From:      t.From,
		To:        t.To,
		Quantity:  t.Quantity.String(),
		Memo:      t.Memo,
		Status:    string(t.Status),
		Attempts:  t.Attempts,
		LastError: t.LastError,
		CreatedAt: t.CreatedAt,
	}
	if t.SentAt != nil {
		row.SentAt = sql.NullTime{Time: *t.SentAt, Valid: true}
	}
	return row
}

func (r transferRow) toEntity() (*entity.Transfer, error) {
	quantity, err := valueobject.ParseAsset(r.Quantity)
	if err != nil {
		return nil, err
	}
	t := &entity.Transfer{
		ID:        r.ID,
		Kind:      valueobject.TransferKind(r.Kind),
		From:      r.From,
		To:        r.To,
		Quantity:  quantity,
		Memo:      r.Memo,
		Status:    valueobject.TransferStatus(r.Status),
		Attempts:  r.Attempts,
		LastError: r.LastError,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.SentAt.Valid {
		sent := r.SentAt.Time.UTC()
		t.SentAt = &sent
	}
	return t, nil
}

type principalRow struct {
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func durationSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func secondsDuration(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func idsToArray(ids []uint64) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func arrayToIDs(values pq.Int64Array) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = uint64(v)
	}
	return out
}

func langsToArray(langs []uint16) pq.Int64Array {
	out := make(pq.Int64Array, len(langs))
	for i, l := range langs {
		out[i] = int64(l)
	}
	return out
}

func arrayToLangs(values pq.Int64Array) []uint16 {
	out := make([]uint16, len(values))
	for i, v := range values {
		out[i] = uint16(v)
	}
	return out
}
