package arbitration

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

const (
	EventCaseStatus        = "case_status"
	EventRulingSubmitted   = "ruling_submitted"
	EventOfferReceived     = "offer_received"
	EventOfferAnswered     = "offer_answered"
	EventInfoRequested     = "info_requested"
	EventArbitratorSeated  = "arbitrator_seated"
	EventElectionClosed    = "election_closed"
	EventElectionRunoff    = "election_runoff"
	EventBalanceCredited   = "balance_credited"
	EventTransferScheduled = "transfer_scheduled"
)

type CaseEvent struct {
	CaseID     uint64                 `json:"case_id"`
	Status     valueobject.CaseStatus `json:"case_status"`
	StatusName string                 `json:"status_name"`
}

type OfferEvent struct {
	CaseID     uint64                  `json:"case_id"`
	OfferID    uint64                  `json:"offer_id"`
	Arbitrator string                  `json:"arbitrator"`
	Status     valueobject.OfferStatus `json:"status"`
}

type ClaimInfoEvent struct {
	CaseID   uint64    `json:"case_id"`
	ClaimID  uint64    `json:"claim_id"`
	Required string    `json:"info_required"`
	Deadline time.Time `json:"deadline"`
}

type ElectionEvent struct {
	ElectionID uint64   `json:"election_id"`
	Elected    []string `json:"elected"`
	Runoff     []string `json:"runoff,omitempty"`
}

// notifyCase рассылает новый статус дела всем его участникам.
func (s *session) notifyCase(cf *entity.CaseFile) {
	event := CaseEvent{CaseID: cf.ID, Status: cf.Status, StatusName: cf.Status.String()}
	s.notify(cf.Claimant, EventCaseStatus, event)
	s.notify(cf.Respondant, EventCaseStatus, event)
	for _, arb := range cf.Arbitrators {
		s.notify(arb, EventCaseStatus, event)
	}
}
