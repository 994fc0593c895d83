package valueobject

import (
	"fmt"
	"math"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

type Symbol struct {
	Code      string
	Precision uint8
}

var (
	TLOS = Symbol{Code: "TLOS", Precision: 4}
	USD  = Symbol{Code: "USD", Precision: 4}
)

var knownSymbols = map[string]Symbol{
	TLOS.Code: TLOS,
	USD.Code:  USD,
}

const maxSymbolLength = 7

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// Asset хранит сумму в минимальных единицах валюты.
type Asset struct {
	Amount int64
	Symbol Symbol
}

func NewAsset(amount int64, symbol Symbol) Asset {
	return Asset{Amount: amount, Symbol: symbol}
}

func ZeroAsset(symbol Symbol) Asset {
	return Asset{Symbol: symbol}
}

// ParseAsset разбирает строку вида "15.3846 TLOS".
func ParseAsset(s string) (Asset, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Asset{}, apperror.ErrInvalidAsset
	}
	code := parts[1]
	if len(code) == 0 || len(code) > maxSymbolLength || strings.ToUpper(code) != code {
		return Asset{}, apperror.ErrInvalidAsset
	}

	value, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Asset{}, apperror.Wrap(err, apperror.ErrCodeInvalidFormat, "некорректная сумма")
	}
	if value.IsNegative() {
		return Asset{}, apperror.ErrInvalidAsset
	}

	digits := uint8(0)
	if idx := strings.IndexByte(parts[0], '.'); idx >= 0 {
		digits = uint8(len(parts[0]) - idx - 1)
	}

	symbol, ok := knownSymbols[code]
	if !ok {
		symbol = Symbol{Code: code, Precision: digits}
	}
	if digits > symbol.Precision {
		return Asset{}, apperror.ErrInvalidAsset
	}

	minor := value.Shift(int32(symbol.Precision)).BigInt()
	if !minor.IsInt64() {
		return Asset{}, apperror.ErrAmountOverflow
	}
	return Asset{Amount: minor.Int64(), Symbol: symbol}, nil
}

func MustParseAsset(s string) Asset {
	a, err := ParseAsset(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Asset) String() string {
	value := decimal.New(a.Amount, -int32(a.Symbol.Precision))
	return value.StringFixed(int32(a.Symbol.Precision)) + " " + a.Symbol.Code
}

func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Asset) UnmarshalText(text []byte) error {
	parsed, err := ParseAsset(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Asset) IsZero() bool {
	return a.Amount == 0
}

func (a Asset) IsPositive() bool {
	return a.Amount > 0
}

// Require проверяет, что сумма указана в ожидаемой валюте.
func (a Asset) Require(symbol Symbol) error {
	if a.Symbol != symbol {
		return apperror.ErrCurrencyMismatch
	}
	return nil
}

func (a Asset) Add(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, apperror.ErrCurrencyMismatch
	}
	if (b.Amount > 0 && a.Amount > math.MaxInt64-b.Amount) || (b.Amount < 0 && a.Amount < math.MinInt64-b.Amount) {
		return Asset{}, apperror.ErrAmountOverflow
	}
	return Asset{Amount: a.Amount + b.Amount, Symbol: a.Symbol}, nil
}

func (a Asset) Sub(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, apperror.ErrCurrencyMismatch
	}
	if (b.Amount < 0 && a.Amount > math.MaxInt64+b.Amount) || (b.Amount > 0 && a.Amount < math.MinInt64+b.Amount) {
		return Asset{}, apperror.ErrAmountOverflow
	}
	return Asset{Amount: a.Amount - b.Amount, Symbol: a.Symbol}, nil
}

// Cmp сравнивает суммы одной валюты: -1, 0 или 1.
func (a Asset) Cmp(b Asset) (int, error) {
	if a.Symbol != b.Symbol {
		return 0, apperror.ErrCurrencyMismatch
	}
	switch {
	case a.Amount < b.Amount:
		return -1, nil
	case a.Amount > b.Amount:
		return 1, nil
	}
	return 0, nil
}

// MulDiv вычисляет amount*mul/div без переполнения промежуточного результата.
// Результат усекается и выражается в валюте symbol.
func (a Asset) MulDiv(mul, div uint64, symbol Symbol) (Asset, error) {
	if a.Amount < 0 {
		return Asset{}, apperror.ErrInvalidAsset
	}
	if div == 0 {
		return Asset{}, apperror.ErrAmountOverflow
	}
	result, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(uint64(a.Amount)),
		uint256.NewInt(mul),
		uint256.NewInt(div),
	)
	if overflow || !result.IsUint64() || result.Uint64() > math.MaxInt64 {
		return Asset{}, apperror.ErrAmountOverflow
	}
	return Asset{Amount: int64(result.Uint64()), Symbol: symbol}, nil
}

func (a Asset) Mul(n uint64) (Asset, error) {
	return a.MulDiv(n, 1, a.Symbol)
}
