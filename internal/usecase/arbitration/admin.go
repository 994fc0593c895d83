package arbitration

import (
	"errors"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

func (s *session) initContract(p InitParams) (interface{}, error) {
	_, err := s.tx.Config().Get(s.ctx)
	if err == nil {
		return nil, apperror.ErrAlreadyInitialized
	}
	if !errors.Is(err, apperror.ErrNotInitialized) {
		return nil, err
	}

	exists, err := s.accountExists(p.InitialAdmin)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrAccountMissing
	}

	settings := s.engine.settings
	cfg, err := entity.NewConfig(p.InitialAdmin, settings.Version, settings.Params)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	s.cfgDirty = true
	return cfg, nil
}

func (s *session) setConfig(p SetConfigParams) (interface{}, error) {
	cfg, err := s.mutableConfig()
	if err != nil {
		return nil, err
	}
	params := entity.ConfigParams{
		MaxElectedArbitrators:   p.MaxElectedArbs,
		ElectionVotingDuration:  seconds(p.ElectionDuration),
		RunoffVotingDuration:    seconds(p.RunoffDuration),
		AddCandidatesDuration:   seconds(p.ElectionAddCandidatesDuration),
		ArbitratorTermLength:    seconds(p.ArbitratorTermLength),
		MaxClaimsPerCase:        p.MaxClaimsPerCase,
		FeeUSD:                  p.FeeUSD,
		AcceptingOffersDuration: seconds(p.ClaimantAcceptingOffersDuration),
	}
	if err := cfg.Update(params); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *session) setAdmin(p SetAdminParams) (interface{}, error) {
	exists, err := s.accountExists(p.NewAdmin)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrAccountMissing
	}
	cfg, err := s.mutableConfig()
	if err != nil {
		return nil, err
	}
	cfg.Admin = p.NewAdmin
	return cfg, nil
}

func (s *session) setVersion(p SetVersionParams) (interface{}, error) {
	if p.NewVersion == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "версия не может быть пустой")
	}
	cfg, err := s.mutableConfig()
	if err != nil {
		return nil, err
	}
	cfg.ContractVersion = p.NewVersion
	return cfg, nil
}

func seconds(v uint32) time.Duration {
	return time.Duration(v) * time.Second
}
