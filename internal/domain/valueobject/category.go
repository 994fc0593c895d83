package valueobject

import "github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"

type ClaimCategory uint8

const (
	CategoryLostKeyRecovery    ClaimCategory = 1
	CategoryTrxReversal        ClaimCategory = 2
	CategoryEmergencyIntervene ClaimCategory = 3
	CategoryContestedOwnership ClaimCategory = 4
	CategoryUnexecutedRelief   ClaimCategory = 5
	CategoryContractBreach     ClaimCategory = 6
	CategoryMisusedCopyright   ClaimCategory = 7
	CategoryTort               ClaimCategory = 8
	CategoryBPPenaltyReversal  ClaimCategory = 9
	CategoryWrongfulArbAct     ClaimCategory = 10
	CategoryActExecRelief      ClaimCategory = 11
	CategoryWorkerProposalFail ClaimCategory = 12
	CategoryTBNOABreach        ClaimCategory = 13
	CategoryMisc               ClaimCategory = 14
)

func (c ClaimCategory) IsValid() bool {
	return c >= CategoryLostKeyRecovery && c <= CategoryMisc
}

func NewClaimCategory(value uint8) (ClaimCategory, error) {
	c := ClaimCategory(value)
	if !c.IsValid() {
		return 0, apperror.ErrInvalidCategory
	}
	return c, nil
}
