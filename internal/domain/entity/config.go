package entity

import (
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type ConfigParams struct {
	MaxElectedArbitrators   uint16
	ElectionVotingDuration  time.Duration
	RunoffVotingDuration    time.Duration
	AddCandidatesDuration   time.Duration
	ArbitratorTermLength    time.Duration
	MaxClaimsPerCase        uint8
	FeeUSD                  valueobject.Asset
	AcceptingOffersDuration time.Duration
}

func (p ConfigParams) Validate() error {
	if p.MaxElectedArbitrators == 0 {
		return apperror.New(apperror.ErrCodeValidation, "количество арбитров должно быть больше 0")
	}
	if p.MaxClaimsPerCase == 0 {
		return apperror.New(apperror.ErrCodeValidation, "минимум один иск на дело")
	}
	if err := p.FeeUSD.Require(valueobject.USD); err != nil {
		return err
	}
	return nil
}

type Config struct {
	Admin                   string            `json:"admin"`
	ContractVersion         string            `json:"contract_version"`
	MaxElectedArbitrators   uint16            `json:"max_elected_arbs"`
	ElectionVotingDuration  time.Duration     `json:"election_voting_duration"`
	RunoffVotingDuration    time.Duration     `json:"runoff_voting_duration"`
	AddCandidatesDuration   time.Duration     `json:"add_candidates_duration"`
	ArbitratorTermLength    time.Duration     `json:"arb_term_length"`
	AcceptingOffersDuration time.Duration     `json:"accepting_offers_duration"`
	CurrentElectionID       uint64            `json:"current_election_id"`
	FeeUSD                  valueobject.Asset `json:"fee_usd"`
	MaxClaimsPerCase        uint8             `json:"max_claims_per_case"`
	AvailableFunds          valueobject.Asset `json:"available_funds"`
	ReservedFunds           valueobject.Asset `json:"reserved_funds"`
}

func NewConfig(admin, version string, params ConfigParams) (*Config, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	c := &Config{
		Admin:           admin,
		ContractVersion: version,
		AvailableFunds:  valueobject.ZeroAsset(valueobject.TLOS),
		ReservedFunds:   valueobject.ZeroAsset(valueobject.TLOS),
	}
	c.apply(params)
	return c, nil
}

func (c *Config) Update(params ConfigParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	c.apply(params)
	return nil
}

func (c *Config) apply(params ConfigParams) {
	c.MaxElectedArbitrators = params.MaxElectedArbitrators
	c.ElectionVotingDuration = params.ElectionVotingDuration
	c.RunoffVotingDuration = params.RunoffVotingDuration
	c.AddCandidatesDuration = params.AddCandidatesDuration
	c.ArbitratorTermLength = params.ArbitratorTermLength
	c.MaxClaimsPerCase = params.MaxClaimsPerCase
	c.FeeUSD = params.FeeUSD
	c.AcceptingOffersDuration = params.AcceptingOffersDuration
}

func (c *Config) IsAdmin(principal string) bool {
	return c.Admin == principal
}

func (c *Config) VotingDuration(runoff bool) time.Duration {
	if runoff {
		return c.RunoffVotingDuration
	}
	return c.ElectionVotingDuration
}
