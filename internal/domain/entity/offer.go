package entity

import (
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type Offer struct {
	ID             uint64                  `json:"offer_id"`
	CaseID         uint64                  `json:"case_id"`
	Status         valueobject.OfferStatus `json:"status"`
	EstimatedHours uint8                   `json:"estimated_hours"`
	Arbitrator     string                  `json:"arbitrator"`
	HourlyRate     valueobject.Asset       `json:"hourly_rate"`
}

func NewOffer(id, caseID uint64, arbitrator string, hourlyRate valueobject.Asset, estimatedHours uint8) *Offer {
	return &Offer{
		ID:             id,
		CaseID:         caseID,
		Status:         valueobject.OfferStatusPending,
		EstimatedHours: estimatedHours,
		Arbitrator:     arbitrator,
		HourlyRate:     hourlyRate,
	}
}

func (o *Offer) IsPending() bool {
	return o.Status == valueobject.OfferStatusPending
}

func (o *Offer) RequirePending() error {
	if !o.IsPending() {
		return apperror.ErrNotPending
	}
	return nil
}

// TotalCost возвращает hourlyRate*estimatedHours в USD.
func (o *Offer) TotalCost() (valueobject.Asset, error) {
	return o.HourlyRate.Mul(uint64(o.EstimatedHours))
}
