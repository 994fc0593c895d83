package arbitration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/ballot"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/oracle"
	"github.com/ignatzorin/arbitration-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/arbitration"
)

const (
	self  = "arbitration"
	admin = "admin"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]repository.Event
}

func (n *recordingNotifier) Notify(principal string, event repository.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[principal] = append(n.events[principal], event)
}

func (n *recordingNotifier) types(principal string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events[principal] {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *persistence.BoltStore
	engine  *arbitration.Engine
	queries *arbitration.Queries
	board   *ballot.Board
	clock   *testClock
	events  *recordingNotifier
	links   int
}

func newBareFixture(t *testing.T, principals ...string) *fixture {
	t.Helper()
	store, err := persistence.NewBoltStore(filepath.Join(t.TempDir(), "engine.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		board:  ballot.NewBoard("telos.decide", tlos("0.0000")),
		clock:  &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		events: &recordingNotifier{events: make(map[string][]repository.Event)},
	}
	f.engine = arbitration.NewEngine(store, oracle.Fixed(6500), f.board, self,
		arbitration.WithClock(f.clock.Now),
		arbitration.WithNotifier(f.events),
	)
	f.queries = arbitration.NewQueries(store)

	require.NoError(t, store.WithinTx(f.ctx, func(ctx context.Context, tx repository.Tx) error {
		for _, name := range append([]string{admin}, principals...) {
			p, err := entity.NewPrincipal(name, "hash", f.clock.now)
			if err != nil {
				return err
			}
			if err := tx.Principals().Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}))
	return f
}

func newFixture(t *testing.T, principals ...string) *fixture {
	f := newBareFixture(t, principals...)
	f.do(self, arbitration.InitParams{InitialAdmin: admin})
	return f
}

func tlos(s string) valueobject.Asset {
	return valueobject.MustParseAsset(s + " TLOS")
}

func usd(s string) valueobject.Asset {
	return valueobject.MustParseAsset(s + " USD")
}

// link возвращает новую уникальную ссылку на контент.
func (f *fixture) link() string {
	f.links++
	return fmt.Sprintf("Qm%044d", f.links)
}

func (f *fixture) do(actor string, p arbitration.Params) interface{} {
	f.t.Helper()
	res, err := f.engine.Do(f.ctx, actor, p)
	require.NoError(f.t, err, "action %s by %s", p.Action(), actor)
	return res
}

func (f *fixture) fail(actor string, p arbitration.Params, want error) {
	f.t.Helper()
	_, err := f.engine.Do(f.ctx, actor, p)
	require.ErrorIs(f.t, err, want, "action %s by %s", p.Action(), actor)
}

func (f *fixture) deposit(from, quantity string) {
	f.t.Helper()
	require.NoError(f.t, f.engine.Deposit(f.ctx, entity.Deposit{From: from, To: self, Quantity: tlos(quantity), Memo: "deposit"}))
}

func (f *fixture) config() *entity.Config {
	f.t.Helper()
	cfg, err := f.queries.Config(f.ctx)
	require.NoError(f.t, err)
	return cfg
}

func (f *fixture) balance(owner string) string {
	f.t.Helper()
	b, err := f.queries.Balance(f.ctx, owner)
	require.NoError(f.t, err)
	return b.String()
}

func (f *fixture) caseDetails(id uint64) *arbitration.CaseDetails {
	f.t.Helper()
	d, err := f.queries.Case(f.ctx, id)
	require.NoError(f.t, err)
	return d
}

func (f *fixture) arbitrator(name string) *entity.Arbitrator {
	f.t.Helper()
	a, err := f.queries.Arbitrator(f.ctx, name)
	require.NoError(f.t, err)
	return a
}

// seat проводит выборы без голосования, в которых все кандидаты сразу становятся арбитрами.
func (f *fixture) seat(names ...string) {
	f.t.Helper()
	for _, name := range names {
		f.do(name, arbitration.RegArbParams{Nominee: name, CredentialsLink: f.link()})
	}
	f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
	for _, name := range names {
		f.do(name, arbitration.CandAddLeadParams{Nominee: name})
	}
	f.clock.Advance(f.config().AddCandidatesDuration)
	f.do(admin, arbitration.BeginVotingParams{BallotName: "seatballot"})
}

func (f *fixture) fileCase(claimant, respondant string) uint64 {
	f.t.Helper()
	res := f.do(claimant, arbitration.FileCaseParams{
		Claimant:      claimant,
		ClaimLink:     f.link(),
		LangCodes:     []uint16{0},
		Respondant:    respondant,
		ClaimCategory: uint8(valueobject.CategoryContractBreach),
	})
	return res.(arbitration.FileCaseResult).CaseID
}

func (f *fixture) readyCase(claimant, respondant string) uint64 {
	f.t.Helper()
	id := f.fileCase(claimant, respondant)
	f.do(claimant, arbitration.ReadyCaseParams{CaseID: id, Claimant: claimant})
	return id
}

func (f *fixture) offer(caseID uint64, arb, rate string, hours uint8) uint64 {
	f.t.Helper()
	res := f.do(arb, arbitration.MakeOfferParams{
		CaseID:         caseID,
		OfferID:        arbitration.NewOfferID,
		Arbitrator:     arb,
		HourlyRate:     usd(rate),
		EstimatedHours: hours,
	})
	return res.(arbitration.MakeOfferResult).OfferID
}

// assignedCase доводит дело до назначения арбитра: стоимость 1.3 USD * 5 ч = 10.0000 TLOS.
func (f *fixture) assignedCase(claimant, respondant, arb string) uint64 {
	f.t.Helper()
	id := f.readyCase(claimant, respondant)
	offerID := f.offer(id, arb, "1.3000", 5)
	f.do(claimant, arbitration.RespondOfferParams{CaseID: id, OfferID: offerID, Accept: true})
	return id
}

// assertReserved проверяет, что резерв контракта равен сумме средств, удерживаемых открытыми делами.
func (f *fixture) assertReserved() {
	f.t.Helper()
	cases, err := f.queries.Cases(f.ctx, repository.CaseFilter{})
	require.NoError(f.t, err)
	sum := valueobject.ZeroAsset(valueobject.TLOS)
	for _, cf := range cases {
		if cf.Status < valueobject.CaseStatusAwaitingArbs || cf.Status > valueobject.CaseStatusDecision {
			continue
		}
		held, err := cf.HeldFunds()
		require.NoError(f.t, err)
		sum, err = sum.Add(held)
		require.NoError(f.t, err)
	}
	assert.Equal(f.t, sum.String(), f.config().ReservedFunds.String(), "reserved funds invariant")
}

func TestInit_CreatesConfig(t *testing.T) {
	f := newFixture(t)

	cfg := f.config()
	assert.Equal(t, admin, cfg.Admin)
	assert.Equal(t, "0.0000 TLOS", cfg.AvailableFunds.String())
	assert.Equal(t, "0.0000 TLOS", cfg.ReservedFunds.String())
	assert.Equal(t, uint16(21), cfg.MaxElectedArbitrators)
	assert.Equal(t, uint64(0), cfg.CurrentElectionID)
	assert.Equal(t, "10.0000 USD", cfg.FeeUSD.String())

	f.fail(self, arbitration.InitParams{InitialAdmin: admin}, apperror.ErrAlreadyInitialized)
}

func TestInit_Guards(t *testing.T) {
	f := newBareFixture(t)

	f.fail(admin, arbitration.InitParams{InitialAdmin: admin}, apperror.ErrForbidden)
	f.fail(self, arbitration.InitParams{InitialAdmin: "ghost"}, apperror.ErrAccountMissing)

	_, err := f.queries.Config(f.ctx)
	assert.ErrorIs(t, err, apperror.ErrNotInitialized)
}

func TestSetConfig_AdminOnly(t *testing.T) {
	f := newFixture(t, "alice")
	params := arbitration.SetConfigParams{
		MaxElectedArbs:                  5,
		ElectionDuration:                3600,
		RunoffDuration:                  1800,
		ElectionAddCandidatesDuration:   600,
		ArbitratorTermLength:            86400,
		MaxClaimsPerCase:                3,
		FeeUSD:                          usd("20.0000"),
		ClaimantAcceptingOffersDuration: 7200,
	}

	f.fail("alice", params, apperror.ErrForbidden)
	f.do(admin, params)

	cfg := f.config()
	assert.Equal(t, uint16(5), cfg.MaxElectedArbitrators)
	assert.Equal(t, time.Hour, cfg.ElectionVotingDuration)
	assert.Equal(t, "20.0000 USD", cfg.FeeUSD.String())

	params.FeeUSD = tlos("1.0000")
	f.fail(admin, params, apperror.ErrCurrencyMismatch)
}

func TestSetAdminAndVersion(t *testing.T) {
	f := newFixture(t, "alice", "bob")

	f.fail("alice", arbitration.SetAdminParams{NewAdmin: "alice"}, apperror.ErrForbidden)
	f.fail(admin, arbitration.SetAdminParams{NewAdmin: "ghost"}, apperror.ErrAccountMissing)
	f.do(admin, arbitration.SetAdminParams{NewAdmin: "alice"})
	assert.Equal(t, "alice", f.config().Admin)

	// Прежний администратор теряет права.
	f.fail(admin, arbitration.SetVersionParams{NewVersion: "v2"}, apperror.ErrForbidden)
	f.fail("bob", arbitration.SetVersionParams{NewVersion: "v2"}, apperror.ErrForbidden)

	f.do("alice", arbitration.SetVersionParams{NewVersion: "v2"})
	assert.Equal(t, "v2", f.config().ContractVersion)
	f.do(self, arbitration.SetVersionParams{NewVersion: "v3"})
	assert.Equal(t, "v3", f.config().ContractVersion)

	_, err := f.engine.Do(f.ctx, "alice", arbitration.SetVersionParams{NewVersion: ""})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, "v3", f.config().ContractVersion)
}

func TestReadyCase_EscrowsFee(t *testing.T) {
	f := newFixture(t, "alice")
	f.deposit("alice", "50.0000")

	id := f.readyCase("alice", "")

	cf := f.caseDetails(id).Case
	assert.Equal(t, valueobject.CaseStatusAwaitingArbs, cf.Status)
	assert.Equal(t, "15.3846 TLOS", cf.FeePaidTLOS.String())
	assert.True(t, cf.SendingOffersUntil.Equal(f.clock.now.Add(7*24*time.Hour)))
	assert.Equal(t, "34.6154 TLOS", f.balance("alice"))
	assert.Equal(t, "15.3846 TLOS", f.config().ReservedFunds.String())
	f.assertReserved()
}

func TestReadyCase_OverdrawnLeavesCaseUntouched(t *testing.T) {
	f := newFixture(t, "alice")
	f.deposit("alice", "10.0000")

	id := f.fileCase("alice", "")
	f.fail("alice", arbitration.ReadyCaseParams{CaseID: id, Claimant: "alice"}, apperror.ErrOverdrawn)

	assert.Equal(t, valueobject.CaseStatusSetup, f.caseDetails(id).Case.Status)
	assert.Equal(t, "10.0000 TLOS", f.balance("alice"))
	assert.Equal(t, "0.0000 TLOS", f.config().ReservedFunds.String())
}

func TestFileCase_Validation(t *testing.T) {
	f := newFixture(t, "alice", "bob")

	f.fail("bob", arbitration.FileCaseParams{Claimant: "alice", ClaimLink: f.link(), ClaimCategory: 1}, apperror.ErrForbidden)
	f.fail("alice", arbitration.FileCaseParams{Claimant: "alice", ClaimLink: f.link(), ClaimCategory: 1, Respondant: "ghost"}, apperror.ErrRespondantMustBeAccount)
	f.fail("alice", arbitration.FileCaseParams{Claimant: "alice", ClaimLink: "short", ClaimCategory: 1}, apperror.ErrInvalidContentLink)
	f.fail("alice", arbitration.FileCaseParams{Claimant: "alice", ClaimLink: f.link(), ClaimCategory: 42}, apperror.ErrInvalidCategory)

	cases, err := f.queries.Cases(f.ctx, repository.CaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, cases)

	first := f.fileCase("alice", "bob")
	second := f.fileCase("alice", "")
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)
}

func TestClaims_AddUpdateRemove(t *testing.T) {
	f := newFixture(t, "alice")
	id := f.fileCase("alice", "")
	firstClaim := f.caseDetails(id).Claims[0]

	f.fail("alice", arbitration.AddClaimParams{CaseID: id, ClaimLink: firstClaim.Summary, Claimant: "alice", ClaimCategory: 2}, apperror.ErrDuplicateLink)
	res := f.do("alice", arbitration.AddClaimParams{CaseID: id, ClaimLink: f.link(), Claimant: "alice", ClaimCategory: 2})
	second := res.(arbitration.AddClaimResult).ClaimID
	assert.Equal(t, uint8(2), f.caseDetails(id).Case.NumberClaims)

	updated := f.link()
	f.do("alice", arbitration.UpdateClaimParams{CaseID: id, ClaimID: second, Claimant: "alice", ClaimLink: updated})
	f.fail("alice", arbitration.UpdateClaimParams{CaseID: id, ClaimID: second, Claimant: "alice", ClaimLink: firstClaim.Summary}, apperror.ErrDuplicateLink)

	f.do("alice", arbitration.RemoveClaimParams{CaseID: id, ClaimID: firstClaim.ID, Claimant: "alice"})
	details := f.caseDetails(id)
	assert.Equal(t, uint8(1), details.Case.NumberClaims)
	require.Len(t, details.Claims, 1)
	assert.Equal(t, updated, details.Claims[0].Summary)
}

func TestAddClaim_Limit(t *testing.T) {
	f := newFixture(t, "alice")
	f.do(admin, arbitration.SetConfigParams{
		MaxElectedArbs: 21, ElectionDuration: 60, RunoffDuration: 60, ElectionAddCandidatesDuration: 60,
		ArbitratorTermLength: 86400, MaxClaimsPerCase: 2, FeeUSD: usd("10.0000"), ClaimantAcceptingOffersDuration: 60,
	})
	id := f.fileCase("alice", "")
	f.do("alice", arbitration.AddClaimParams{CaseID: id, ClaimLink: f.link(), Claimant: "alice", ClaimCategory: 3})
	f.fail("alice", arbitration.AddClaimParams{CaseID: id, ClaimLink: f.link(), Claimant: "alice", ClaimCategory: 3}, apperror.ErrTooManyClaims)
}

func TestShredCase_RemovesCaseAndClaims(t *testing.T) {
	f := newFixture(t, "alice")
	id := f.fileCase("alice", "")

	f.do("alice", arbitration.ShredCaseParams{CaseID: id, Claimant: "alice"})

	_, err := f.queries.Case(f.ctx, id)
	assert.ErrorIs(t, err, apperror.ErrCaseNotFound)
}

func TestCancelCase_RefundsFee(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")

	f.fail("bob", arbitration.CancelCaseParams{CaseID: id}, apperror.ErrForbidden)
	f.do("alice", arbitration.CancelCaseParams{CaseID: id})

	assert.Equal(t, valueobject.CaseStatusCancelled, f.caseDetails(id).Case.Status)
	assert.Equal(t, "50.0000 TLOS", f.balance("alice"))
	assert.Equal(t, "0.0000 TLOS", f.config().ReservedFunds.String())
	f.assertReserved()
}

func TestCancelCase_WithOffersKeepsFee(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")
	offerID := f.offer(id, "bob", "1.3000", 5)
	f.do("bob", arbitration.DismissOfferParams{CaseID: id, OfferID: offerID})

	f.do("alice", arbitration.CancelCaseParams{CaseID: id})

	cf := f.caseDetails(id).Case
	assert.Equal(t, valueobject.CaseStatusCancelled, cf.Status)
	assert.Equal(t, uint8(1), cf.NumberOffers)
	assert.Equal(t, "34.6154 TLOS", f.balance("alice"))
	cfg := f.config()
	assert.Equal(t, "15.3846 TLOS", cfg.AvailableFunds.String())
	assert.Equal(t, "0.0000 TLOS", cfg.ReservedFunds.String())
	f.assertReserved()
}

func TestRespondOffer_AcceptRejectsOthers(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.seat("bob", "carol")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")

	bobOffer := f.offer(id, "bob", "1.3000", 5)
	carolOffer := f.offer(id, "carol", "2.0000", 3)
	f.do("alice", arbitration.RespondOfferParams{CaseID: id, OfferID: bobOffer, Accept: true})

	details := f.caseDetails(id)
	assert.Equal(t, valueobject.CaseStatusArbsAssigned, details.Case.Status)
	assert.Equal(t, []string{"bob"}, details.Case.Arbitrators)
	assert.Equal(t, "10.0000 TLOS", details.Case.ArbitratorCostTLOS.String())
	statuses := map[uint64]valueobject.OfferStatus{}
	for _, o := range details.Offers {
		statuses[o.ID] = o.Status
	}
	assert.Equal(t, valueobject.OfferStatusAccepted, statuses[bobOffer])
	assert.Equal(t, valueobject.OfferStatusRejected, statuses[carolOffer])

	assert.Equal(t, "24.6154 TLOS", f.balance("alice"))
	assert.Equal(t, "25.3846 TLOS", f.config().ReservedFunds.String())
	assert.Equal(t, []uint64{id}, f.arbitrator("bob").OpenCaseIDs)
	assert.Contains(t, f.events.types("carol"), arbitration.EventOfferAnswered)
	f.assertReserved()
}

func TestRespondOffer_Reject(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")
	offerID := f.offer(id, "bob", "1.3000", 5)

	f.do("alice", arbitration.RespondOfferParams{CaseID: id, OfferID: offerID, Accept: false})

	details := f.caseDetails(id)
	assert.Equal(t, valueobject.CaseStatusAwaitingArbs, details.Case.Status)
	assert.Equal(t, valueobject.OfferStatusRejected, details.Offers[0].Status)
	f.fail("alice", arbitration.RespondOfferParams{CaseID: id, OfferID: offerID, Accept: true}, apperror.ErrNotPending)
}

func TestMakeOffer_UpdateIsIdempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")
	offerID := f.offer(id, "bob", "1.3000", 5)

	update := arbitration.MakeOfferParams{CaseID: id, OfferID: int64(offerID), Arbitrator: "bob", HourlyRate: usd("2.5000"), EstimatedHours: 4}
	f.do("bob", update)
	first := *f.caseDetails(id).Offers[0]
	f.do("bob", update)
	second := *f.caseDetails(id).Offers[0]

	assert.Equal(t, first, second)
	assert.Equal(t, "2.5000 USD", second.HourlyRate.String())
	assert.Equal(t, uint8(1), f.caseDetails(id).Case.NumberOffers)

	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "bob", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrDuplicateOffer)
	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: -5, Arbitrator: "bob", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrOfferNotFound)
	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "bob", HourlyRate: tlos("1.0000"), EstimatedHours: 1}, apperror.ErrCurrencyMismatch)
}

func TestMakeOffer_Guards(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.seat("bob", "alice")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")

	f.fail("carol", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "carol", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrArbitratorNotFound)
	f.fail("alice", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "alice", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrArbitratorIsCaseParty)
	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "bob", HourlyRate: usd("1.0000"), EstimatedHours: 0}, apperror.ErrInvalidHours)

	f.do("bob", arbitration.NewArbStatusParams{Arbitrator: "bob", NewStatus: uint8(valueobject.ArbitratorStatusUnavailable)})
	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "bob", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrNotAvailable)
	f.do("bob", arbitration.NewArbStatusParams{Arbitrator: "bob", NewStatus: uint8(valueobject.ArbitratorStatusAvailable)})

	f.clock.Advance(7*24*time.Hour + time.Second)
	f.fail("bob", arbitration.MakeOfferParams{CaseID: id, OfferID: arbitration.NewOfferID, Arbitrator: "bob", HourlyRate: usd("1.0000"), EstimatedHours: 1}, apperror.ErrOffersClosed)
}

func TestDismissOffer_KeepsOfferCount(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.seat("bob", "carol")
	f.deposit("alice", "50.0000")
	id := f.readyCase("alice", "")
	offerID := f.offer(id, "bob", "1.3000", 5)

	f.fail("carol", arbitration.DismissOfferParams{CaseID: id, OfferID: offerID}, apperror.ErrForbidden)
	f.do("bob", arbitration.DismissOfferParams{CaseID: id, OfferID: offerID})

	details := f.caseDetails(id)
	assert.Equal(t, valueobject.OfferStatusDismissed, details.Offers[0].Status)
	assert.Equal(t, uint8(1), details.Case.NumberOffers)

	// после отзыва арбитр может сделать новое предложение
	f.offer(id, "bob", "1.0000", 2)
	assert.Equal(t, uint8(2), f.caseDetails(id).Case.NumberOffers)
}

func TestRecuse_RefundsAndMovesCase(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "", "bob")

	f.fail("bob", arbitration.RecuseParams{CaseID: id, Rationale: "", AssignedArb: "bob"}, apperror.ErrInvalidRationale)
	f.fail("alice", arbitration.RecuseParams{CaseID: id, Rationale: "conflict", AssignedArb: "bob"}, apperror.ErrForbidden)
	f.do("bob", arbitration.RecuseParams{CaseID: id, Rationale: "conflict of interest", AssignedArb: "bob"})

	cf := f.caseDetails(id).Case
	assert.Equal(t, valueobject.CaseStatusRecused, cf.Status)
	assert.Equal(t, valueobject.CaseStatus(9), cf.Status)
	assert.Equal(t, "conflict of interest", cf.Recusal)
	arb := f.arbitrator("bob")
	assert.Empty(t, arb.OpenCaseIDs)
	assert.Equal(t, []uint64{id}, arb.RecusedCaseIDs)
	assert.Equal(t, "50.0000 TLOS", f.balance("alice"))
	assert.Equal(t, "0.0000 TLOS", f.config().ReservedFunds.String())
	f.assertReserved()

	f.fail("bob", arbitration.RecuseParams{CaseID: id, Rationale: "again", AssignedArb: "bob"}, apperror.ErrCannotRecuse)
}

func TestForceRecusal_AdminOnly(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "", "bob")

	f.fail("bob", arbitration.ForceRecusalParams{CaseID: id, Rationale: "misconduct", Arbitrator: "bob"}, apperror.ErrForbidden)
	f.do(admin, arbitration.ForceRecusalParams{CaseID: id, Rationale: "misconduct", Arbitrator: "bob"})

	assert.Equal(t, valueobject.CaseStatusRecused, f.caseDetails(id).Case.Status)
	assert.Equal(t, []uint64{id}, f.arbitrator("bob").RecusedCaseIDs)
	f.assertReserved()
}

func TestCaseLifecycle_Resolved(t *testing.T) {
	f := newFixture(t, "alice", "bob", "dave")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "dave", "bob")
	claimID := f.caseDetails(id).Claims[0].ID

	f.fail("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob", NumberDaysRespondant: 0}, apperror.ErrMinOneDay)
	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob", NumberDaysRespondant: 3, ResponseInfoRequired: "answer the claim"})
	claim := f.caseDetails(id).Claims[0]
	assert.True(t, claim.ResponseInfoNeeded)
	assert.True(t, claim.RespondantLimitTime.Equal(f.clock.now.Add(3*24*time.Hour)))

	decision := f.link()
	f.fail("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: true, DecisionLink: decision}, apperror.ErrRespondantStillHasTime)

	f.fail("alice", arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: f.link()}, apperror.ErrForbidden)
	f.do("dave", arbitration.RespondParams{CaseID: id, ClaimID: claimID, Respondant: "dave", ResponseLink: f.link()})
	assert.Equal(t, valueobject.ClaimStatusResponded, f.caseDetails(id).Claims[0].Status)

	f.fail("bob", arbitration.SetRulingParams{CaseID: id, AssignedArb: "bob", CaseRuling: f.link()}, apperror.ErrUnresolvedClaims)
	f.do("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: true, DecisionLink: decision})
	f.do("bob", arbitration.SetRulingParams{CaseID: id, AssignedArb: "bob", CaseRuling: f.link()})
	assert.Equal(t, valueobject.CaseStatusDecision, f.caseDetails(id).Case.Status)
	assert.Contains(t, f.events.types(admin), arbitration.EventRulingSubmitted)

	f.fail("bob", arbitration.ValidateCaseParams{CaseID: id, Proceed: true}, apperror.ErrForbidden)
	f.do(admin, arbitration.ValidateCaseParams{CaseID: id, Proceed: true})

	assert.Equal(t, valueobject.CaseStatusResolved, f.caseDetails(id).Case.Status)
	assert.Equal(t, "10.0000 TLOS", f.balance("bob"))
	cfg := f.config()
	assert.Equal(t, "15.3846 TLOS", cfg.AvailableFunds.String())
	assert.Equal(t, "0.0000 TLOS", cfg.ReservedFunds.String())
	// успешное решение не переносит дело в закрытые
	assert.Equal(t, []uint64{id}, f.arbitrator("bob").OpenCaseIDs)
	f.assertReserved()
}

func TestValidateCase_DismissRefundsClaimant(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "", "bob")
	claimID := f.caseDetails(id).Claims[0].ID

	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob"})
	f.do("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: false, DecisionLink: f.link()})
	f.do("bob", arbitration.SetRulingParams{CaseID: id, AssignedArb: "bob", CaseRuling: f.link()})
	f.do(admin, arbitration.ValidateCaseParams{CaseID: id, Proceed: false})

	assert.Equal(t, valueobject.CaseStatusDismissed, f.caseDetails(id).Case.Status)
	assert.Equal(t, "50.0000 TLOS", f.balance("alice"))
	arb := f.arbitrator("bob")
	assert.Empty(t, arb.OpenCaseIDs)
	assert.Equal(t, []uint64{id}, arb.ClosedCaseIDs)
	f.assertReserved()
}

func TestReviewClaim_ExtendsDeadlines(t *testing.T) {
	f := newFixture(t, "alice", "bob", "dave")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "dave", "bob")
	claimID := f.caseDetails(id).Claims[0].ID
	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob", NumberDaysRespondant: 2})
	limit := f.caseDetails(id).Claims[0].RespondantLimitTime

	f.fail("bob", arbitration.ReviewClaimParams{CaseID: id, ClaimID: claimID, AssignedArb: "bob"}, apperror.ErrNothingToReview)
	f.fail("bob", arbitration.ReviewClaimParams{CaseID: id, ClaimID: claimID, AssignedArb: "bob", ClaimInfoNeeded: true}, apperror.ErrMinOneDay)

	f.do("bob", arbitration.ReviewClaimParams{
		CaseID: id, ClaimID: claimID, AssignedArb: "bob",
		ClaimInfoNeeded: true, ClaimInfoRequired: "attach contract", NumberDaysClaimant: 1,
		ResponseInfoNeeded: true, ResponseInfoRequired: "explain", NumberDaysRespondant: 1,
	})

	claim := f.caseDetails(id).Claims[0]
	assert.True(t, claim.ClaimantLimitTime.Equal(f.clock.now.Add(24*time.Hour)))
	assert.True(t, claim.RespondantLimitTime.Equal(limit.Add(24*time.Hour)))
	assert.Equal(t, "attach contract", claim.ClaimInfoRequired)
	assert.Contains(t, f.events.types("alice"), arbitration.EventInfoRequested)
	assert.Contains(t, f.events.types("dave"), arbitration.EventInfoRequested)

	f.clock.Advance(5 * 24 * time.Hour)
	f.do("bob", arbitration.SettleClaimParams{CaseID: id, AssignedArb: "bob", ClaimID: claimID, Accept: true, DecisionLink: f.link()})
}

func TestReviewClaim_ResponseWithoutRespondant(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "50.0000")
	id := f.assignedCase("alice", "", "bob")
	claimID := f.caseDetails(id).Claims[0].ID
	f.do("bob", arbitration.StartCaseParams{CaseID: id, AssignedArb: "bob"})

	f.fail("bob", arbitration.ReviewClaimParams{
		CaseID: id, ClaimID: claimID, AssignedArb: "bob", ResponseInfoNeeded: true, NumberDaysRespondant: 1,
	}, apperror.ErrNoRespondant)
}

func TestDismissArb_RecusesOpenCases(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seat("bob")
	f.deposit("alice", "100.0000")
	first := f.assignedCase("alice", "", "bob")
	second := f.assignedCase("alice", "", "bob")

	f.fail("bob", arbitration.DismissArbParams{Arbitrator: "bob", RemoveFromCases: true}, apperror.ErrForbidden)
	f.do(admin, arbitration.DismissArbParams{Arbitrator: "bob", RemoveFromCases: true})

	arb := f.arbitrator("bob")
	assert.Equal(t, valueobject.ArbitratorStatusRemoved, arb.Status)
	assert.Empty(t, arb.OpenCaseIDs)
	assert.ElementsMatch(t, []uint64{first, second}, arb.RecusedCaseIDs)
	assert.Equal(t, valueobject.CaseStatusRecused, f.caseDetails(first).Case.Status)
	assert.Equal(t, "100.0000 TLOS", f.balance("alice"))
	f.assertReserved()

	f.fail(admin, arbitration.DismissArbParams{Arbitrator: "bob"}, apperror.ErrAlreadyRemoved)
	f.fail("bob", arbitration.NewArbStatusParams{Arbitrator: "bob", NewStatus: 2}, apperror.ErrNotAvailable)
}

func TestArbitratorSettings(t *testing.T) {
	f := newFixture(t, "bob")
	f.seat("bob")

	f.do("bob", arbitration.SetLangCodesParams{Arbitrator: "bob", LangCodes: []uint16{0, 5}})
	assert.Equal(t, []uint16{0, 5}, f.arbitrator("bob").Languages)

	f.fail("bob", arbitration.NewArbStatusParams{Arbitrator: "bob", NewStatus: uint8(valueobject.ArbitratorStatusRemoved)}, apperror.ErrInvalidStatus)

	f.clock.Advance(f.config().ArbitratorTermLength + time.Second)
	f.fail("bob", arbitration.SetLangCodesParams{Arbitrator: "bob", LangCodes: []uint16{1}}, apperror.ErrTermExpired)
}

func TestRegArb_Rules(t *testing.T) {
	f := newFixture(t, "bob")

	f.do("bob", arbitration.RegArbParams{Nominee: "bob", CredentialsLink: f.link()})
	f.fail("bob", arbitration.RegArbParams{Nominee: "bob", CredentialsLink: f.link()}, apperror.ErrAlreadyApplicant)
	f.do("bob", arbitration.UnregNomineeParams{Nominee: "bob"})
	f.fail("bob", arbitration.UnregNomineeParams{Nominee: "bob"}, apperror.ErrNomineeNotFound)

	f.seat("bob")
	f.fail("bob", arbitration.RegArbParams{Nominee: "bob", CredentialsLink: f.link()}, apperror.ErrStillSeated)

	f.clock.Advance(f.config().ArbitratorTermLength + time.Second)
	f.do("bob", arbitration.RegArbParams{Nominee: "bob", CredentialsLink: f.link()})
	assert.Equal(t, valueobject.ArbitratorStatusSeatExpired, f.arbitrator("bob").Status)
}

func TestElection_SkipVotingSeatsEveryone(t *testing.T) {
	f := newFixture(t, "bob", "carol")
	f.seat("bob", "carol")

	for _, name := range []string{"bob", "carol"} {
		arb := f.arbitrator(name)
		assert.Equal(t, valueobject.ArbitratorStatusAvailable, arb.Status)
		assert.True(t, arb.TermExpiration.Equal(f.clock.now.Add(f.config().ArbitratorTermLength)))
		assert.Contains(t, f.events.types(name), arbitration.EventArbitratorSeated)
	}
	nominees, err := f.queries.Nominees(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, nominees)

	election, err := f.queries.Election(f.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ElectionStatusClosed, election.Status)
	assert.True(t, election.BeginVoting.Equal(election.EndVoting))
	assert.Equal(t, "0.0000 TLOS", f.config().AvailableFunds.String())
}

func TestElection_CandidateWindow(t *testing.T) {
	f := newFixture(t, "bob")
	f.do("bob", arbitration.RegArbParams{Nominee: "bob", CredentialsLink: f.link()})
	f.fail(admin, arbitration.InitElectionParams{ElectionInfo: "bad"}, apperror.ErrInvalidContentLink)
	f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
	f.fail(admin, arbitration.InitElectionParams{ElectionInfo: f.link()}, apperror.ErrElectionInProgress)

	f.do("bob", arbitration.CandAddLeadParams{Nominee: "bob"})
	f.fail("bob", arbitration.CandAddLeadParams{Nominee: "bob"}, apperror.ErrAlreadyCandidate)
	f.fail("bob", arbitration.UnregNomineeParams{Nominee: "bob"}, apperror.ErrIsCandidate)
	f.fail(admin, arbitration.BeginVotingParams{BallotName: "ballot"}, apperror.ErrCandidatesOpen)

	f.do("bob", arbitration.CandRmvLeadParams{Nominee: "bob"})
	f.fail("bob", arbitration.CandRmvLeadParams{Nominee: "bob"}, apperror.ErrCandidateNotFound)

	f.clock.Advance(f.config().AddCandidatesDuration)
	f.fail("bob", arbitration.CandAddLeadParams{Nominee: "bob"}, apperror.ErrCandidatesClosed)
}

func TestElection_TieSpawnsRunoff(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol", "dave")
	f.do(admin, arbitration.SetConfigParams{
		MaxElectedArbs: 2, ElectionDuration: 3600, RunoffDuration: 1800, ElectionAddCandidatesDuration: 600,
		ArbitratorTermLength: 31536000, MaxClaimsPerCase: 21, FeeUSD: usd("10.0000"), ClaimantAcceptingOffersDuration: 604800,
	})
	f.board.SetFee(tlos("30.0000"))
	require.NoError(t, f.engine.Deposit(f.ctx, entity.Deposit{From: "alice", To: self, Quantity: tlos("100.0000"), Memo: arbitration.MemoSkip}))
	assert.Equal(t, "100.0000 TLOS", f.config().AvailableFunds.String())

	candidates := []string{"alice", "bob", "carol", "dave"}
	for _, name := range candidates {
		f.do(name, arbitration.RegArbParams{Nominee: name, CredentialsLink: f.link()})
	}
	f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
	for _, name := range candidates {
		f.do(name, arbitration.CandAddLeadParams{Nominee: name})
	}
	f.clock.Advance(600 * time.Second)
	f.do(admin, arbitration.BeginVotingParams{BallotName: "arbelect1"})

	req, ok := f.board.Ballot("arbelect1")
	require.True(t, ok)
	assert.Equal(t, candidates, req.Options)
	assert.Equal(t, uint8(2), req.MaxOptions)
	assert.Equal(t, "70.0000 TLOS", f.config().AvailableFunds.String())

	f.fail(admin, arbitration.EndElectionParams{}, apperror.ErrVotingOpen)

	require.NoError(t, f.board.Vote("arbelect1", "alice", 10))
	require.NoError(t, f.board.Vote("arbelect1", "bob", 5))
	require.NoError(t, f.board.Vote("arbelect1", "carol", 5))
	require.NoError(t, f.board.Vote("arbelect1", "dave", 1))
	f.clock.Advance(3600 * time.Second)

	res := f.do(self, arbitration.EndElectionParams{}).(arbitration.EndElectionResult)
	assert.Equal(t, uint64(0), res.Election.ID)
	assert.Equal(t, valueobject.ElectionStatusClosed, res.Election.Status)
	require.NotNil(t, res.Runoff)
	runoff := res.Runoff

	assert.Equal(t, uint64(1), runoff.ID)
	assert.Equal(t, uint8(1), runoff.AvailableSeats)
	assert.Equal(t, []string{"bob", "carol"}, runoff.CandidateNames())
	assert.Equal(t, valueobject.ElectionStatusVoting, runoff.Status)
	assert.True(t, runoff.EndVoting.Equal(f.clock.now.Add(1800*time.Second)))
	assert.Len(t, runoff.BallotName, 12)
	assert.NotEqual(t, "arbelect1", runoff.BallotName)
	_, ok = f.board.Ballot(runoff.BallotName)
	assert.True(t, ok)

	assert.Equal(t, uint64(1), f.config().CurrentElectionID)
	assert.Equal(t, "40.0000 TLOS", f.config().AvailableFunds.String())

	assert.Equal(t, valueobject.ArbitratorStatusAvailable, f.arbitrator("alice").Status)
	_, err := f.queries.Arbitrator(f.ctx, "bob")
	assert.ErrorIs(t, err, apperror.ErrArbitratorNotFound)

	nominees, err := f.queries.Nominees(f.ctx)
	require.NoError(t, err)
	var nomineeNames []string
	for _, n := range nominees {
		nomineeNames = append(nomineeNames, n.Name)
	}
	assert.ElementsMatch(t, []string{"bob", "carol"}, nomineeNames)

	first, err := f.queries.Election(f.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ElectionStatusClosed, first.Status)
	assert.Equal(t, uint64(10), first.Candidates[0].Votes)
	assert.Contains(t, f.events.types("bob"), arbitration.EventElectionRunoff)

	transfers, err := f.queries.Transfers(f.ctx, "telos.decide")
	require.NoError(t, err)
	assert.Len(t, transfers, 2)

	require.NoError(t, f.board.Vote(runoff.BallotName, "carol", 3))
	f.clock.Advance(1800 * time.Second)
	ended := f.do(admin, arbitration.EndElectionParams{}).(arbitration.EndElectionResult)
	assert.Nil(t, ended.Runoff)
	final := ended.Election
	assert.Equal(t, uint64(1), final.ID)
	assert.Equal(t, valueobject.ElectionStatusClosed, final.Status)
	assert.Equal(t, valueobject.ArbitratorStatusAvailable, f.arbitrator("carol").Status)

	nominees, err = f.queries.Nominees(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, nominees)
}

func TestBeginVoting_InsufficientFunds(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.do(admin, arbitration.SetConfigParams{
		MaxElectedArbs: 1, ElectionDuration: 3600, RunoffDuration: 1800, ElectionAddCandidatesDuration: 600,
		ArbitratorTermLength: 31536000, MaxClaimsPerCase: 21, FeeUSD: usd("10.0000"), ClaimantAcceptingOffersDuration: 604800,
	})
	for _, name := range []string{"bob", "carol"} {
		f.do(name, arbitration.RegArbParams{Nominee: name, CredentialsLink: f.link()})
	}
	f.do(admin, arbitration.InitElectionParams{ElectionInfo: f.link()})
	for _, name := range []string{"bob", "carol"} {
		f.do(name, arbitration.CandAddLeadParams{Nominee: name})
	}
	f.clock.Advance(600 * time.Second)
	f.board.SetFee(tlos("30.0000"))

	f.fail(admin, arbitration.BeginVotingParams{BallotName: "arbelect1"}, apperror.ErrInsufficientFunds)
	f.fail(admin, arbitration.BeginVotingParams{BallotName: "Bad_Name"}, apperror.ErrInvalidBallotName)
	_, ok := f.board.Ballot("arbelect1")
	assert.False(t, ok)
}

func TestDeposit_Rules(t *testing.T) {
	f := newFixture(t, "alice")

	err := f.engine.Deposit(f.ctx, entity.Deposit{From: "alice", To: self, Quantity: usd("1.0000")})
	assert.ErrorIs(t, err, apperror.ErrCurrencyMismatch)

	require.NoError(t, f.engine.Deposit(f.ctx, entity.Deposit{From: self, To: "alice", Quantity: tlos("1.0000")}))
	assert.Equal(t, "0.0000 TLOS", f.balance("alice"))

	err = f.engine.Deposit(f.ctx, entity.Deposit{From: "alice", To: "bob", Quantity: tlos("1.0000")})
	assert.Error(t, err)

	f.deposit("alice", "2.5000")
	f.deposit("alice", "2.5000")
	assert.Equal(t, "5.0000 TLOS", f.balance("alice"))
	assert.Contains(t, f.events.types("alice"), arbitration.EventBalanceCredited)
}

func TestWithdraw_EnqueuesTransfer(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.deposit("alice", "12.0000")

	f.fail("bob", arbitration.WithdrawParams{Owner: "alice"}, apperror.ErrForbidden)
	res := f.do("alice", arbitration.WithdrawParams{Owner: "alice"}).(arbitration.WithdrawResult)

	assert.Equal(t, "12.0000 TLOS", res.Quantity.String())
	assert.Equal(t, "0.0000 TLOS", f.balance("alice"))
	transfers, err := f.queries.Transfers(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, res.TransferID, transfers[0].ID.String())
	assert.Equal(t, valueobject.TransferStatusPending, transfers[0].Status)
	assert.Equal(t, self, transfers[0].From)

	f.fail("alice", arbitration.WithdrawParams{Owner: "alice"}, apperror.ErrNoBalance)
}

func TestDispatch_DecodesJSON(t *testing.T) {
	f := newFixture(t, "alice")

	raw := json.RawMessage(fmt.Sprintf(`{"claimant":"alice","claim_link":"%s","lang_codes":[0],"respondant":"","claim_category":6}`, f.link()))
	res, err := f.engine.Dispatch(f.ctx, "alice", arbitration.ActionFileCase, raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.(arbitration.FileCaseResult).CaseID)

	_, err = f.engine.Dispatch(f.ctx, "alice", arbitration.ActionFileCase, json.RawMessage(`{"unknown":1}`))
	assert.True(t, apperror.IsValidation(err))

	_, err = f.engine.Dispatch(f.ctx, "alice", arbitration.Action("nosuch"), nil)
	assert.ErrorIs(t, err, apperror.ErrUnknownAction)

	assert.Len(t, f.engine.Actions(), 33)
}
