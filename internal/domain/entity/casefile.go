package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type CaseFile struct {
	ID                 uint64                 `json:"case_id"`
	Status             valueobject.CaseStatus `json:"case_status"`
	Claimant           string                 `json:"claimant"`
	Respondant         string                 `json:"respondant"`
	Arbitrators        []string               `json:"arbitrators"`
	Approvals          []string               `json:"approvals"`
	RequiredLangs      []uint16               `json:"required_langs"`
	NumberClaims       uint8                  `json:"number_claims"`
	NumberOffers       uint8                  `json:"number_offers"`
	CaseRuling         string                 `json:"case_ruling"`
	Recusal            string                 `json:"recusal"`
	UpdatedAt          time.Time              `json:"update_ts"`
	FeePaidTLOS        valueobject.Asset      `json:"fee_paid_tlos"`
	ArbitratorCostTLOS valueobject.Asset      `json:"arbitrator_cost_tlos"`
	SendingOffersUntil time.Time              `json:"sending_offers_until_ts"`
}

func NewCaseFile(id uint64, claimant, respondant string, langs []uint16, now time.Time) *CaseFile {
	if langs == nil {
		langs = []uint16{}
	}
	return &CaseFile{
		ID:                 id,
		Status:             valueobject.CaseStatusSetup,
		Claimant:           claimant,
		Respondant:         respondant,
		Arbitrators:        []string{},
		Approvals:          []string{},
		RequiredLangs:      langs,
		UpdatedAt:          now,
		FeePaidTLOS:        valueobject.ZeroAsset(valueobject.TLOS),
		ArbitratorCostTLOS: valueobject.ZeroAsset(valueobject.TLOS),
	}
}

func (c *CaseFile) RequireStatus(status valueobject.CaseStatus) error {
	if c.Status != status {
		return apperror.ErrCaseWrongStatus
	}
	return nil
}

func (c *CaseFile) TransitionTo(status valueobject.CaseStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(status) {
		return apperror.ErrCaseWrongStatus
	}
	c.Status = status
	c.UpdatedAt = now
	return nil
}

func (c *CaseFile) HasRespondant() bool {
	return c.Respondant != ""
}

func (c *CaseFile) IsClaimant(principal string) bool {
	return c.Claimant == principal
}

func (c *CaseFile) IsAssigned(arbitrator string) bool {
	for _, a := range c.Arbitrators {
		if a == arbitrator {
			return true
		}
	}
	return false
}

// AssignedArbitrator возвращает единственного назначенного арбитра.
func (c *CaseFile) AssignedArbitrator() (string, bool) {
	if len(c.Arbitrators) == 0 {
		return "", false
	}
	return c.Arbitrators[0], true
}

// HeldFunds возвращает сумму, которую дело держит в резерве.
func (c *CaseFile) HeldFunds() (valueobject.Asset, error) {
	return c.FeePaidTLOS.Add(c.ArbitratorCostTLOS)
}
