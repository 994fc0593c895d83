package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/usecase/arbitration"
)

// ContractParams - параметры, которые действие init записывает в конфигурацию контракта.
// Длительности задаются в секундах.
type ContractParams struct {
	Version                 string            `toml:"version"`
	MaxElectedArbs          uint16            `toml:"max_elected_arbs"`
	ElectionVotingDuration  uint32            `toml:"election_voting_duration"`
	RunoffVotingDuration    uint32            `toml:"runoff_voting_duration"`
	AddCandidatesDuration   uint32            `toml:"add_candidates_duration"`
	ArbTermLength           uint32            `toml:"arb_term_length"`
	AcceptingOffersDuration uint32            `toml:"accepting_offers_duration"`
	FeeUSD                  valueobject.Asset `toml:"fee_usd"`
	MaxClaimsPerCase        uint8             `toml:"max_claims_per_case"`
}

// LoadContractParams читает TOML файл поверх значений по умолчанию. Отсутствующий файл не ошибка.
func LoadContractParams(path string) (arbitration.InitSettings, error) {
	params := contractParamsFrom(arbitration.DefaultInitSettings())
	if path == "" {
		return params.InitSettings(), nil
	}

	if _, err := toml.DecodeFile(path, &params); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return arbitration.DefaultInitSettings(), nil
		}
		return arbitration.InitSettings{}, fmt.Errorf("config: не удалось прочитать параметры контракта %s: %w", path, err)
	}

	settings := params.InitSettings()
	if err := settings.Params.Validate(); err != nil {
		return arbitration.InitSettings{}, fmt.Errorf("config: параметры контракта %s: %w", path, err)
	}
	return settings, nil
}

func (p ContractParams) InitSettings() arbitration.InitSettings {
	return arbitration.InitSettings{
		Version: p.Version,
		Params: entity.ConfigParams{
			MaxElectedArbitrators:   p.MaxElectedArbs,
			ElectionVotingDuration:  seconds(p.ElectionVotingDuration),
			RunoffVotingDuration:    seconds(p.RunoffVotingDuration),
			AddCandidatesDuration:   seconds(p.AddCandidatesDuration),
			ArbitratorTermLength:    seconds(p.ArbTermLength),
			MaxClaimsPerCase:        p.MaxClaimsPerCase,
			FeeUSD:                  p.FeeUSD,
			AcceptingOffersDuration: seconds(p.AcceptingOffersDuration),
		},
	}
}

func contractParamsFrom(s arbitration.InitSettings) ContractParams {
	return ContractParams{
		Version:                 s.Version,
		MaxElectedArbs:          s.Params.MaxElectedArbitrators,
		ElectionVotingDuration:  uint32(s.Params.ElectionVotingDuration / time.Second),
		RunoffVotingDuration:    uint32(s.Params.RunoffVotingDuration / time.Second),
		AddCandidatesDuration:   uint32(s.Params.AddCandidatesDuration / time.Second),
		ArbTermLength:           uint32(s.Params.ArbitratorTermLength / time.Second),
		AcceptingOffersDuration: uint32(s.Params.AcceptingOffersDuration / time.Second),
		FeeUSD:                  s.Params.FeeUSD,
		MaxClaimsPerCase:        s.Params.MaxClaimsPerCase,
	}
}

func seconds(s uint32) time.Duration {
	return time.Duration(s) * time.Second
}
