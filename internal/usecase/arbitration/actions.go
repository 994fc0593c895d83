package arbitration

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

type Action string

const (
	ActionInit         Action = "init"
	ActionSetConfig    Action = "setconfig"
	ActionSetAdmin     Action = "setadmin"
	ActionSetVersion   Action = "setversion"
	ActionFileCase     Action = "filecase"
	ActionAddClaim     Action = "addclaim"
	ActionUpdateClaim  Action = "updateclaim"
	ActionRemoveClaim  Action = "removeclaim"
	ActionShredCase    Action = "shredcase"
	ActionCancelCase   Action = "cancelcase"
	ActionReadyCase    Action = "readycase"
	ActionRespondOffer Action = "respondoffer"
	ActionWithdraw     Action = "withdraw"
	ActionMakeOffer    Action = "makeoffer"
	ActionDismissOffer Action = "dismissoffer"
	ActionNewArbStatus Action = "newarbstatus"
	ActionSetLangCodes Action = "setlangcodes"
	ActionRecuse       Action = "recuse"
	ActionForceRecusal Action = "forcerecusal"
	ActionDismissArb   Action = "dismissarb"
	ActionValidateCase Action = "validatecase"
	ActionReviewClaim  Action = "reviewclaim"
	ActionSetRuling    Action = "setruling"
	ActionSettleClaim  Action = "settleclaim"
	ActionStartCase    Action = "startcase"
	ActionRespond      Action = "respond"
	ActionRegArb       Action = "regarb"
	ActionUnregNominee Action = "unregnominee"
	ActionInitElection Action = "initelection"
	ActionCandAddLead  Action = "candaddlead"
	ActionCandRmvLead  Action = "candrmvlead"
	ActionBeginVoting  Action = "beginvoting"
	ActionEndElection  Action = "endelection"

	// actionTransfer - входящее уведомление леджера, не вызывается напрямую.
	actionTransfer Action = "transfer"
)

// NewOfferID в makeoffer означает создание нового предложения.
const NewOfferID int64 = -1

type Params interface {
	Action() Action
}

type InitParams struct {
	InitialAdmin string `json:"initial_admin"`
}

type SetConfigParams struct {
	MaxElectedArbs                  uint16            `json:"max_elected_arbs"`
	ElectionDuration                uint32            `json:"election_duration"`
	RunoffDuration                  uint32            `json:"runoff_duration"`
	ElectionAddCandidatesDuration   uint32            `json:"election_add_candidates_duration"`
	ArbitratorTermLength            uint32            `json:"arbitrator_term_length"`
	MaxClaimsPerCase                uint8             `json:"max_claims_per_case"`
	FeeUSD                          valueobject.Asset `json:"fee_usd"`
	ClaimantAcceptingOffersDuration uint32            `json:"claimant_accepting_offers_duration"`
}

type SetAdminParams struct {
	NewAdmin string `json:"new_admin"`
}

type SetVersionParams struct {
	NewVersion string `json:"new_version"`
}

type FileCaseParams struct {
	Claimant      string   `json:"claimant"`
	ClaimLink     string   `json:"claim_link"`
	LangCodes     []uint16 `json:"lang_codes"`
	Respondant    string   `json:"respondant"`
	ClaimCategory uint8    `json:"claim_category"`
}

type AddClaimParams struct {
	CaseID        uint64 `json:"case_id"`
	ClaimLink     string `json:"claim_link"`
	Claimant      string `json:"claimant"`
	ClaimCategory uint8  `json:"claim_category"`
}

type UpdateClaimParams struct {
	CaseID    uint64 `json:"case_id"`
	ClaimID   uint64 `json:"claim_id"`
	Claimant  string `json:"claimant"`
	ClaimLink string `json:"claim_link"`
}

type RemoveClaimParams struct {
	CaseID   uint64 `json:"case_id"`
	ClaimID  uint64 `json:"claim_id"`
	Claimant string `json:"claimant"`
}

type ShredCaseParams struct {
	CaseID   uint64 `json:"case_id"`
	Claimant string `json:"claimant"`
}

type CancelCaseParams struct {
	CaseID uint64 `json:"case_id"`
}

type ReadyCaseParams struct {
	CaseID   uint64 `json:"case_id"`
	Claimant string `json:"claimant"`
}

type RespondOfferParams struct {
	CaseID  uint64 `json:"case_id"`
	OfferID uint64 `json:"offer_id"`
	Accept  bool   `json:"accept"`
}

type WithdrawParams struct {
	Owner string `json:"owner"`
}

type MakeOfferParams struct {
	CaseID         uint64            `json:"case_id"`
	OfferID        int64             `json:"offer_id"`
	Arbitrator     string            `json:"arbitrator"`
	HourlyRate     valueobject.Asset `json:"hourly_rate"`
	EstimatedHours uint8             `json:"estimated_hours"`
}

type DismissOfferParams struct {
	CaseID  uint64 `json:"case_id"`
	OfferID uint64 `json:"offer_id"`
}

type NewArbStatusParams struct {
	Arbitrator string `json:"arbitrator"`
	NewStatus  uint8  `json:"new_status"`
}

type SetLangCodesParams struct {
	Arbitrator string   `json:"arbitrator"`
	LangCodes  []uint16 `json:"lang_codes"`
}

type RecuseParams struct {
	CaseID      uint64 `json:"case_id"`
	Rationale   string `json:"rationale"`
	AssignedArb string `json:"assigned_arb"`
}

type ForceRecusalParams struct {
	CaseID     uint64 `json:"case_id"`
	Rationale  string `json:"rationale"`
	Arbitrator string `json:"arbitrator"`
}

type DismissArbParams struct {
	Arbitrator      string `json:"arbitrator"`
	RemoveFromCases bool   `json:"remove_from_cases"`
}

type ValidateCaseParams struct {
	CaseID  uint64 `json:"case_id"`
	Proceed bool   `json:"proceed"`
}

type ReviewClaimParams struct {
	CaseID               uint64 `json:"case_id"`
	ClaimID              uint64 `json:"claim_id"`
	AssignedArb          string `json:"assigned_arb"`
	ClaimInfoNeeded      bool   `json:"claim_info_needed"`
	ClaimInfoRequired    string `json:"claim_info_required"`
	ResponseInfoNeeded   bool   `json:"response_info_needed"`
	ResponseInfoRequired string `json:"response_info_required"`
	NumberDaysClaimant   uint8  `json:"number_days_claimant"`
	NumberDaysRespondant uint8  `json:"number_days_respondant"`
}

type SetRulingParams struct {
	CaseID      uint64 `json:"case_id"`
	AssignedArb string `json:"assigned_arb"`
	CaseRuling  string `json:"case_ruling"`
}

type SettleClaimParams struct {
	CaseID       uint64 `json:"case_id"`
	AssignedArb  string `json:"assigned_arb"`
	ClaimID      uint64 `json:"claim_id"`
	Accept       bool   `json:"accept"`
	DecisionLink string `json:"decision_link"`
}

type StartCaseParams struct {
	CaseID               uint64 `json:"case_id"`
	AssignedArb          string `json:"assigned_arb"`
	NumberDaysRespondant uint8  `json:"number_days_respondant"`
	ResponseInfoRequired string `json:"response_info_required"`
}

type RespondParams struct {
	CaseID       uint64 `json:"case_id"`
	ClaimID      uint64 `json:"claim_id"`
	Respondant   string `json:"respondant"`
	ResponseLink string `json:"response_link"`
}

type RegArbParams struct {
	Nominee         string `json:"nominee"`
	CredentialsLink string `json:"credentials_link"`
}

type UnregNomineeParams struct {
	Nominee string `json:"nominee"`
}

type InitElectionParams struct {
	ElectionInfo string `json:"election_info"`
}

type CandAddLeadParams struct {
	Nominee string `json:"nominee"`
}

type CandRmvLeadParams struct {
	Nominee string `json:"nominee"`
}

type BeginVotingParams struct {
	BallotName string `json:"ballot_name"`
	Runoff     bool   `json:"runoff"`
}

type EndElectionParams struct{}

func (InitParams) Action() Action         { return ActionInit }
func (SetConfigParams) Action() Action    { return ActionSetConfig }
func (SetAdminParams) Action() Action     { return ActionSetAdmin }
func (SetVersionParams) Action() Action   { return ActionSetVersion }
func (FileCaseParams) Action() Action     { return ActionFileCase }
func (AddClaimParams) Action() Action     { return ActionAddClaim }
func (UpdateClaimParams) Action() Action  { return ActionUpdateClaim }
func (RemoveClaimParams) Action() Action  { return ActionRemoveClaim }
func (ShredCaseParams) Action() Action    { return ActionShredCase }
func (CancelCaseParams) Action() Action   { return ActionCancelCase }
func (ReadyCaseParams) Action() Action    { return ActionReadyCase }
func (RespondOfferParams) Action() Action { return ActionRespondOffer }
func (WithdrawParams) Action() Action     { return ActionWithdraw }
func (MakeOfferParams) Action() Action    { return ActionMakeOffer }
func (DismissOfferParams) Action() Action { return ActionDismissOffer }
func (NewArbStatusParams) Action() Action { return ActionNewArbStatus }
func (SetLangCodesParams) Action() Action { return ActionSetLangCodes }
func (RecuseParams) Action() Action       { return ActionRecuse }
func (ForceRecusalParams) Action() Action { return ActionForceRecusal }
func (DismissArbParams) Action() Action   { return ActionDismissArb }
func (ValidateCaseParams) Action() Action { return ActionValidateCase }
func (ReviewClaimParams) Action() Action  { return ActionReviewClaim }
func (SetRulingParams) Action() Action    { return ActionSetRuling }
func (SettleClaimParams) Action() Action  { return ActionSettleClaim }
func (StartCaseParams) Action() Action    { return ActionStartCase }
func (RespondParams) Action() Action      { return ActionRespond }
func (RegArbParams) Action() Action       { return ActionRegArb }
func (UnregNomineeParams) Action() Action { return ActionUnregNominee }
func (InitElectionParams) Action() Action { return ActionInitElection }
func (CandAddLeadParams) Action() Action  { return ActionCandAddLead }
func (CandRmvLeadParams) Action() Action  { return ActionCandRmvLead }
func (BeginVotingParams) Action() Action  { return ActionBeginVoting }
func (EndElectionParams) Action() Action  { return ActionEndElection }

type FileCaseResult struct {
	CaseID  uint64 `json:"case_id"`
	ClaimID uint64 `json:"claim_id"`
}

type AddClaimResult struct {
	ClaimID uint64 `json:"claim_id"`
}

type MakeOfferResult struct {
	OfferID uint64 `json:"offer_id"`
}

type InitElectionResult struct {
	ElectionID     uint64 `json:"election_id"`
	AvailableSeats uint8  `json:"available_seats"`
}

type EndElectionResult struct {
	Election *entity.Election `json:"election"`
	Runoff   *entity.Election `json:"runoff,omitempty"`
}

type WithdrawResult struct {
	TransferID string            `json:"transfer_id"`
	Quantity   valueobject.Asset `json:"quantity"`
}
