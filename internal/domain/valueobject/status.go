package valueobject

import (
	"strconv"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type CaseStatus uint8

const (
	CaseStatusSetup         CaseStatus = 0
	CaseStatusAwaitingArbs  CaseStatus = 1
	CaseStatusArbsAssigned  CaseStatus = 2
	CaseStatusInvestigation CaseStatus = 3
	CaseStatusDecision      CaseStatus = 4
	CaseStatusResolved      CaseStatus = 5
	CaseStatusDismissed     CaseStatus = 7
	CaseStatusCancelled     CaseStatus = 8
	CaseStatusRecused       CaseStatus = 9
)

var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseStatusSetup:         {CaseStatusAwaitingArbs},
	CaseStatusAwaitingArbs:  {CaseStatusArbsAssigned, CaseStatusCancelled},
	CaseStatusArbsAssigned:  {CaseStatusInvestigation, CaseStatusRecused},
	CaseStatusInvestigation: {CaseStatusDecision, CaseStatusRecused},
	CaseStatusDecision:      {CaseStatusResolved, CaseStatusDismissed, CaseStatusRecused},
	CaseStatusResolved:      {},
	CaseStatusDismissed:     {},
	CaseStatusCancelled:     {},
	CaseStatusRecused:       {},
}

func (s CaseStatus) IsValid() bool {
	_, ok := caseTransitions[s]
	return ok
}

func (s CaseStatus) CanTransitionTo(newStatus CaseStatus) bool {
	for _, status := range caseTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

// IsRecusable сообщает, что дело начато и ещё не решено.
func (s CaseStatus) IsRecusable() bool {
	return s == CaseStatusArbsAssigned || s == CaseStatusInvestigation || s == CaseStatusDecision
}

func (s CaseStatus) String() string {
	switch s {
	case CaseStatusSetup:
		return "setup"
	case CaseStatusAwaitingArbs:
		return "awaiting_arbs"
	case CaseStatusArbsAssigned:
		return "arbs_assigned"
	case CaseStatusInvestigation:
		return "investigation"
	case CaseStatusDecision:
		return "decision"
	case CaseStatusResolved:
		return "resolved"
	case CaseStatusDismissed:
		return "dismissed"
	case CaseStatusCancelled:
		return "cancelled"
	case CaseStatusRecused:
		return "recused"
	}
	return "unknown"
}

// ParseCaseStatus принимает имя статуса ("investigation") или его числовой код ("3").
func ParseCaseStatus(raw string) (CaseStatus, error) {
	if n, err := strconv.ParseUint(raw, 10, 8); err == nil {
		if s := CaseStatus(n); s.IsValid() {
			return s, nil
		}
		return 0, apperror.ErrInvalidCaseStatus
	}
	for s := range caseTransitions {
		if s.String() == raw {
			return s, nil
		}
	}
	return 0, apperror.ErrInvalidCaseStatus
}

type ClaimStatus uint8

const (
	ClaimStatusFiled     ClaimStatus = 1
	ClaimStatusResponded ClaimStatus = 2
	ClaimStatusAccepted  ClaimStatus = 3
	ClaimStatusDismissed ClaimStatus = 4
)

func (s ClaimStatus) IsValid() bool {
	return s >= ClaimStatusFiled && s <= ClaimStatusDismissed
}

func (s ClaimStatus) IsResolved() bool {
	return s == ClaimStatusAccepted || s == ClaimStatusDismissed
}

type OfferStatus uint8

const (
	OfferStatusPending   OfferStatus = 1
	OfferStatusAccepted  OfferStatus = 2
	OfferStatusRejected  OfferStatus = 3
	OfferStatusDismissed OfferStatus = 4
)

func (s OfferStatus) IsValid() bool {
	return s >= OfferStatusPending && s <= OfferStatusDismissed
}

type ElectionStatus uint8

const (
	ElectionStatusCreated ElectionStatus = 1
	ElectionStatusVoting  ElectionStatus = 2
	ElectionStatusClosed  ElectionStatus = 3
)

func (s ElectionStatus) IsValid() bool {
	return s >= ElectionStatusCreated && s <= ElectionStatusClosed
}

type ArbitratorStatus uint8

const (
	ArbitratorStatusUnavailable ArbitratorStatus = 1
	ArbitratorStatusAvailable   ArbitratorStatus = 2
	ArbitratorStatusRemoved     ArbitratorStatus = 3
	ArbitratorStatusSeatExpired ArbitratorStatus = 4
)

func (s ArbitratorStatus) IsValid() bool {
	return s >= ArbitratorStatusUnavailable && s <= ArbitratorStatusSeatExpired
}

// NewSelectableArbitratorStatus принимает только статусы, которые арбитр может выставить себе сам.
func NewSelectableArbitratorStatus(status uint8) (ArbitratorStatus, error) {
	s := ArbitratorStatus(status)
	if s != ArbitratorStatusUnavailable && s != ArbitratorStatusAvailable {
		return 0, apperror.ErrInvalidStatus
	}
	return s, nil
}

type TransferStatus string

const (
	TransferStatusPending TransferStatus = "pending"
	TransferStatusSent    TransferStatus = "sent"
	TransferStatusFailed  TransferStatus = "failed"
)

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusSent, TransferStatusFailed:
		return true
	}
	return false
}

// TransferKind определяет, куда вернуть сумму, если перевод так и не доставлен.
type TransferKind string

const (
	// TransferKindWithdrawal возвращается на баланс получателя.
	TransferKindWithdrawal TransferKind = "withdrawal"
	// TransferKindBallotFee возвращается в доступные средства контракта.
	TransferKindBallotFee TransferKind = "ballot_fee"
)

func (k TransferKind) IsValid() bool {
	return k == TransferKindWithdrawal || k == TransferKindBallotFee
}
