package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCaseFileTransitions(t *testing.T) {
	cf := entity.NewCaseFile(0, "claimant", "respondant", nil, now)
	assert.Equal(t, valueobject.CaseStatusSetup, cf.Status)
	assert.NotNil(t, cf.RequiredLangs)
	assert.True(t, cf.HasRespondant())

	err := cf.TransitionTo(valueobject.CaseStatusArbsAssigned, now)
	assert.True(t, errors.Is(err, apperror.ErrCaseWrongStatus))

	later := now.Add(time.Hour)
	require.NoError(t, cf.TransitionTo(valueobject.CaseStatusAwaitingArbs, later))
	assert.Equal(t, later, cf.UpdatedAt)
}

func TestCaseFileAssignedArbitrator(t *testing.T) {
	cf := entity.NewCaseFile(1, "claimant", "", nil, now)
	_, ok := cf.AssignedArbitrator()
	assert.False(t, ok)

	cf.Arbitrators = []string{"arb1"}
	arb, ok := cf.AssignedArbitrator()
	assert.True(t, ok)
	assert.Equal(t, "arb1", arb)
	assert.True(t, cf.IsAssigned("arb1"))
	assert.False(t, cf.IsAssigned("arb2"))
}

func TestClaimDeadlines(t *testing.T) {
	c := entity.NewClaim(0, 0, "link", valueobject.CategoryTrxReversal)
	assert.False(t, c.RespondantHasTime(now))

	c.ResponseInfoNeeded = true
	c.RespondantLimitTime = now.Add(24 * time.Hour)
	assert.True(t, c.RespondantHasTime(now))
	assert.True(t, c.RespondantHasTime(now.Add(24*time.Hour)))
	assert.False(t, c.RespondantHasTime(now.Add(25*time.Hour)))

	c.Status = valueobject.ClaimStatusResponded
	assert.False(t, c.IsEditableByClaimant())
	c.ClaimInfoNeeded = true
	assert.True(t, c.IsEditableByClaimant())
}

func TestArbitratorEligibility(t *testing.T) {
	arb := entity.NewArbitrator("arb1", "creds", now, 24*time.Hour)
	assert.Equal(t, valueobject.ArbitratorStatusAvailable, arb.Status)
	assert.NoError(t, arb.CheckAvailable(now))

	assert.ErrorIs(t, arb.CheckActive(now.Add(48*time.Hour)), apperror.ErrTermExpired)

	arb.Status = valueobject.ArbitratorStatusUnavailable
	assert.ErrorIs(t, arb.CheckAvailable(now), apperror.ErrNotAvailable)

	arb.Status = valueobject.ArbitratorStatusRemoved
	assert.ErrorIs(t, arb.CheckActive(now), apperror.ErrRemoved)
	assert.False(t, arb.HoldsSeat())
}

func TestArbitratorCaseLists(t *testing.T) {
	arb := entity.NewArbitrator("arb1", "creds", now, time.Hour)
	arb.AddOpenCase(1)
	arb.AddOpenCase(2)
	arb.AddOpenCase(3)

	arb.RecuseCase(2)
	arb.CloseCase(3)

	assert.Equal(t, []uint64{1}, arb.OpenCaseIDs)
	assert.Equal(t, []uint64{2}, arb.RecusedCaseIDs)
	assert.Equal(t, []uint64{3}, arb.ClosedCaseIDs)
}

func TestElectionCandidates(t *testing.T) {
	e := entity.NewElection(0, "info", 2, now, now.Add(time.Hour))

	require.NoError(t, e.CheckCandidatesOpen(now))
	require.NoError(t, e.AddCandidate("alice"))
	require.NoError(t, e.AddCandidate("bob"))
	assert.ErrorIs(t, e.AddCandidate("alice"), apperror.ErrAlreadyCandidate)

	require.NoError(t, e.RemoveCandidate("alice"))
	assert.ErrorIs(t, e.RemoveCandidate("alice"), apperror.ErrCandidateNotFound)
	assert.Equal(t, []string{"bob"}, e.CandidateNames())

	assert.ErrorIs(t, e.CheckCandidatesOpen(now.Add(time.Hour)), apperror.ErrCandidatesClosed)
}

func TestConfigParamsValidate(t *testing.T) {
	params := entity.ConfigParams{
		MaxElectedArbitrators: 21,
		MaxClaimsPerCase:      21,
		FeeUSD:                valueobject.MustParseAsset("10.0000 USD"),
	}
	cfg, err := entity.NewConfig("admin", "0.1.0", params)
	require.NoError(t, err)
	assert.Equal(t, "0.0000 TLOS", cfg.AvailableFunds.String())

	params.FeeUSD = valueobject.MustParseAsset("10.0000 TLOS")
	assert.ErrorIs(t, cfg.Update(params), apperror.ErrCurrencyMismatch)

	params.FeeUSD = valueobject.MustParseAsset("10.0000 USD")
	params.MaxElectedArbitrators = 0
	assert.Error(t, cfg.Update(params))
}

func TestTransferRetries(t *testing.T) {
	tr := entity.NewTransfer(valueobject.TransferKindWithdrawal, "self", "alice", valueobject.MustParseAsset("1.0000 TLOS"), "withdrawal", now)
	for i := 0; i < entity.MaxTransferAttempts-1; i++ {
		assert.False(t, tr.MarkFailed(errors.New("ledger down")))
		assert.Equal(t, valueobject.TransferStatusPending, tr.Status)
	}
	assert.True(t, tr.MarkFailed(errors.New("ledger down")))
	assert.Equal(t, valueobject.TransferStatusFailed, tr.Status)
}

func TestValidatePrincipalName(t *testing.T) {
	assert.NoError(t, entity.ValidatePrincipalName("claimant1"))
	assert.NoError(t, entity.ValidatePrincipalName("arb.b"))
	assert.Error(t, entity.ValidatePrincipalName("Upper"))
	assert.Error(t, entity.ValidatePrincipalName("toolongname123"))
	assert.Error(t, entity.ValidatePrincipalName("bad9"))
}
