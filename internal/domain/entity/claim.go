package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
)

type Claim struct {
	ID                   uint64                    `json:"claim_id"`
	CaseID               uint64                    `json:"case_id"`
	Summary              string                    `json:"claim_summary"`
	DecisionLink         string                    `json:"decision_link"`
	ResponseLink         string                    `json:"response_link"`
	Status               valueobject.ClaimStatus   `json:"status"`
	Category             valueobject.ClaimCategory `json:"claim_category"`
	ClaimantLimitTime    time.Time                 `json:"claimant_limit_time"`
	RespondantLimitTime  time.Time                 `json:"respondant_limit_time"`
	ClaimInfoNeeded      bool                      `json:"claim_info_needed"`
	ResponseInfoNeeded   bool                      `json:"response_info_needed"`
	ClaimInfoRequired    string                    `json:"claim_info_required"`
	ResponseInfoRequired string                    `json:"response_info_required"`
}

func NewClaim(id, caseID uint64, summary string, category valueobject.ClaimCategory) *Claim {
	return &Claim{
		ID:       id,
		CaseID:   caseID,
		Summary:  summary,
		Status:   valueobject.ClaimStatusFiled,
		Category: category,
	}
}

func (c *Claim) IsEditableByClaimant() bool {
	return c.Status == valueobject.ClaimStatusFiled ||
		(c.Status == valueobject.ClaimStatusResponded && c.ClaimInfoNeeded)
}

func (c *Claim) IsOpen() bool {
	return c.Status == valueobject.ClaimStatusFiled || c.Status == valueobject.ClaimStatusResponded
}

// RespondantHasTime сообщает, что ответчик ещё может ответить на запрос.
func (c *Claim) RespondantHasTime(now time.Time) bool {
	return c.ResponseInfoNeeded && !now.After(c.RespondantLimitTime)
}

func (c *Claim) ClaimantHasTime(now time.Time) bool {
	return c.ClaimInfoNeeded && !now.After(c.ClaimantLimitTime)
}

func (c *Claim) Settle(decisionLink string, accept bool) {
	c.DecisionLink = decisionLink
	if accept {
		c.Status = valueobject.ClaimStatusAccepted
	} else {
		c.Status = valueobject.ClaimStatusDismissed
	}
}
