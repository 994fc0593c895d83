package arbitration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/arbitration"
)

func electionConfig(maxArbs uint16) arbitration.SetConfigParams {
	return arbitration.SetConfigParams{
		MaxElectedArbs: maxArbs, ElectionDuration: 3600, RunoffDuration: 1800, ElectionAddCandidatesDuration: 600,
		ArbitratorTermLength: 31536000, MaxClaimsPerCase: 21, FeeUSD: usd("10.0000"), ClaimantAcceptingOffersDuration: 604800,
	}
}

func TestSettleClaim_Errors(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "", "bob")
	claimID := f.caseDetails(id).Claims[0].ID
	settle := arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: true, DecisionLink: f.link()}

	f.fail("bob", settle, apperror.ErrCaseWrongStatus)
	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob"})

	f.do("bob", arbitration.ReviewClaimParams{
		CaseID: id, ClaimID: claimID, AssignedArb: "bob",
		ClaimInfoNeeded: true, ClaimInfoRequired: "attach invoice", NumberDaysClaimant: 2,
	})
	f.fail("bob", settle, apperror.ErrClaimantStillHasTime)
	f.fail("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID + 100, DecisionLink: f.link()}, apperror.ErrClaimNotFound)

	f.clock.Advance(2*24*time.Hour + time.Second)
	f.do("bob", settle)
	assert.Equal(t, valueobject.ClaimStatusAccepted, f.caseDetails(id).Claims[0].Status)

	// решение по иску можно пересмотреть, пока дело в расследовании
	f.do("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: false, DecisionLink: f.link()})
	assert.Equal(t, valueobject.ClaimStatusDismissed, f.caseDetails(id).Claims[0].Status)

	f.fail("bob", arbitration.ReviewClaimParams{
		CaseID: id, ClaimID: claimID, AssignedArb: "bob", ClaimInfoNeeded: true, NumberDaysClaimant: 1,
	}, apperror.ErrWrongClaimStatus)
	f.fail("alice", arbitration.UpdateClaimParams{CaseID: id, ClaimID: claimID, Claimant: "alice", ClaimLink: f.link()}, apperror.ErrClaimNotEditable)
}

func TestRespond_Errors(t *testing.T) {
	f := newFixture(t, "alice", "bob", "dave")
	f.seat("bob")
	f.deposit("alice", "100.0000")
	id := f.assignedCase("alice", "dave", "bob")
	claimID := f.caseDetails(id).Claims[0].ID
	respond := arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: f.link()}

	f.fail("dave", respond, apperror.ErrCaseWrongStatus)
	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob", NumberDaysRespondant: 2})

	f.fail("dave", arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: "bad"}, apperror.ErrInvalidContentLink)
	f.do("dave", respond)
	f.fail("dave", arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: f.link()}, apperror.ErrNoResponseNeeded)

	// ответ уже дан, истцу дополнительная информация не запрашивалась
	f.fail("alice", arbitration.UpdateClaimParams{CaseID: id, ClaimID: claimID, Claimant: "alice", ClaimLink: f.link()}, apperror.ErrClaimNotEditable)

	f.do("bob", arbitration.ReviewClaimParams{
		CaseID: id, ClaimID: claimID, AssignedArb: "bob", ResponseInfoNeeded: true, NumberDaysRespondant: 1,
	})
	f.fail("dave", arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: f.link()}, apperror.ErrWrongClaimStatus)

	lone := f.assignedCase("alice", "", "bob")
	loneClaim := f.caseDetails(lone).Claims[0].ID
	f.do("bob", arbitration.StartCaseParams{CaseID: lone, AssignedArb: "bob"})
	f.fail("dave", arbitration.RespondParams{CaseID: lone, ClaimID: loneClaim, Respondant: "dave", ResponseLink: f.link()}, apperror.ErrNoRespondant)
}

func TestUpdateClaim_OnlyInSetupOrInvestigation(t *testing.T) {
	f := newFixture(t, "alice")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")
	claimID := f.caseDetails(id).Claims[0].ID

	f.fail("alice", arbitration.UpdateClaimParams{CaseID: id, ClaimID: claimID, Claimant: "alice", ClaimLink: f.link()}, apperror.ErrCaseWrongStatus)
	f.fail("alice", arbitration.AddClaimParams{CaseID: id, ClaimLink: f.link(), Claimant: "alice", ClaimCategory: 2}, apperror.ErrCaseWrongStatus)
	f.fail("alice", arbitration.ShredCaseParams{CaseID: id, Claimant: "alice"}, apperror.ErrCaseWrongStatus)
}

func TestReadyCase_NoClaims(t *testing.T) {
	f := newFixture(t, "alice")
	f.deposit("alice", "50.0000")
	id := f.fileCase("alice", "")
	claimID := f.caseDetails(id).Claims[0].ID

	f.do("alice", arbitration.RemoveClaimParams{CaseID: id, ClaimID: claimID, Claimant: "alice"})
	f.fail("alice", arbitration.ReadyCaseParams{CaseID: id, Claimant: "alice"}, apperror.ErrNoClaims)

	assert.Equal(t, "50.0000 TLOS", f.balance("alice"))
	assert.Equal(t, valueobject.CaseStatusSetup, f.caseDetails(id).Case.Status)
}

func TestOffers_WrongCaseAndOwner(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.seat("bob", "carol")
	f.deposit("alice", "50.0000")
	first := f.readyCase("alice", "")
	second := f.readyCase("alice", "")
	bobOffer := f.offer(first, "bob", "1.3000", 5)

	f.fail("bob", arbitration.DismissOfferParams{CaseID: second, OfferID: bobOffer}, apperror.ErrWrongCase)
	f.fail("alice", arbitration.RespondOfferParams{CaseID: second, OfferID: bobOffer, Accept: true}, apperror.ErrWrongCase)
	f.fail("bob", arbitration.MakeOfferParams{
		CaseID: second, OfferID: int64(bobOffer), Arbitrator: "bob", HourlyRate: usd("2.0000"), EstimatedHours: 2,
	}, apperror.ErrWrongCase)
	f.fail("carol", arbitration.MakeOfferParams{
		CaseID: first, OfferID: int64(bobOffer), Arbitrator: "carol", HourlyRate: usd("2.0000"), EstimatedHours: 2,
	}, apperror.ErrNotOfferOwner)

	f.do("bob", arbitration.DismissOfferParams{CaseID: first, OfferID: bobOffer})
	f.fail("bob", arbitration.DismissOfferParams{CaseID: first, OfferID: bobOffer}, apperror.ErrNotPending)
	f.fail("bob", arbitration.MakeOfferParams{
		CaseID: first, OfferID: int64(bobOffer), Arbitrator: "bob", HourlyRate: usd("2.0000"), EstimatedHours: 2,
	}, apperror.ErrNotPending)

	offers := f.caseDetails(first).Offers
	require.Len(t, offers, 1)
	assert.Equal(t, "1.3000 USD", offers[0].HourlyRate.String())
	f.assertReserved()
}

func TestInitElection_NoSeatsAvailable(t *testing.T) {
	f := newFixture(t, "bob")
	f.do(admin, electionConfig(1))
	f.seat("bob")

	f.fail(admin, arbitration.InitElectionParams{ElectionInfo: f.link()}, apperror.ErrNoSeatsAvailable)

	// истёкший срок освобождает место
	f.clock.Advance(f.config().ArbitratorTermLength + time.Second)
	res := f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()}).(arbitration.InitElectionResult)
	assert.Equal(t, uint8(1), res.AvailableSeats)
}

func TestBeginVoting_BallotNames(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol", "dave", "erin")
	f.do(admin, electionConfig(2))

	run := func(names ...string) {
		t.Helper()
		for _, name := range names {
			f.do(name, arbitration.RegArbParams{Nominee: name, CredentialsLink: f.link()})
		}
		f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
		for _, name := range names {
			f.do(name, arbitration.CandAddLeadParams{Nominee: name})
		}
		f.clock.Advance(600 * time.Second)
	}

	run("alice", "bob", "carol")
	f.do(admin, arbitration.BeginVotingParams{BallotName: "arbelect1"})
	require.NoError(t, f.board.Vote("arbelect1", "alice", 5))
	require.NoError(t, f.board.Vote("arbelect1", "bob", 3))
	require.NoError(t, f.board.Vote("arbelect1", "carol", 1))
	f.clock.Advance(3600 * time.Second)
	res := f.do(admin, arbitration.EndElectionParams{}).(arbitration.EndElectionResult)
	assert.Nil(t, res.Runoff)
	assert.Equal(t, "alice", res.Election.Candidates[0].Name)

	// без голосования бюллетень не создаётся, поэтому имя не проверяется на занятость
	f.do(admin, electionConfig(3))
	run("carol")
	f.do(admin, arbitration.BeginVotingParams{BallotName: "arbelect1"})
	assert.Equal(t, valueobject.ArbitratorStatusAvailable, f.arbitrator("carol").Status)

	f.do(admin, electionConfig(4))
	run("dave", "erin")
	f.fail(admin, arbitration.BeginVotingParams{BallotName: "arbelect1"}, apperror.ErrBallotNameTaken)
	f.do(admin, arbitration.BeginVotingParams{BallotName: "arbelect2"})
	_, ok := f.board.Ballot("arbelect2")
	assert.True(t, ok)
}

func TestBeginVoting_RefusedBallotRollsBack(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.do(admin, electionConfig(1))
	f.board.SetFee(tlos("30.0000"))
	require.NoError(t, f.engine.Deposit(f.ctx, entity.Deposit{From: "alice", To: self, Quantity: tlos("100.0000"), Memo: arbitration.MemoSkip}))

	for _, name := range []string{"bob", "carol"} {
		f.do(name, arbitration.RegArbParams{Nominee: name, CredentialsLink: f.link()})
	}
	f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
	for _, name := range []string{"bob", "carol"} {
		f.do(name, arbitration.CandAddLeadParams{Nominee: name})
	}
	f.clock.Advance(600 * time.Second)

	// имя уже занято на стороне сервиса голосования
	require.NoError(t, f.board.CreateBallot(f.ctx, entity.BallotRequest{Name: "arbelect1", Options: []string{"other"}}))
	_, err := f.engine.Do(f.ctx, admin, arbitration.BeginVotingParams{BallotName: "arbelect1"})
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnavailable, apperror.CodeOf(err))

	election, err := f.queries.Election(f.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ElectionStatusCreated, election.Status)
	assert.Empty(t, election.BallotName)
	assert.Equal(t, "100.0000 TLOS", f.config().AvailableFunds.String())
	transfers, err := f.queries.Transfers(f.ctx, "telos.decide")
	require.NoError(t, err)
	assert.Empty(t, transfers)

	f.do(admin, arbitration.BeginVotingParams{BallotName: "arbelect2"})
	assert.Equal(t, "70.0000 TLOS", f.config().AvailableFunds.String())
}

func TestDismissArb_SeatExpired(t *testing.T) {
	f := newFixture(t, "bob")
	f.seat("bob")

	f.fail(admin, arbitration.DismissArbParams{Arbitrator: "ghost"}, apperror.ErrArbitratorNotFound)

	f.clock.Advance(f.config().ArbitratorTermLength + time.Second)
	f.fail(admin, arbitration.DismissArbParams{Arbitrator: "bob", RemoveFromCases: true}, apperror.ErrSeatExpired)
	assert.Equal(t, valueobject.ArbitratorStatusAvailable, f.arbitrator("bob").Status)
}
