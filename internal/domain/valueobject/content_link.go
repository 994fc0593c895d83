package valueobject

import "github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"

const (
	contentLinkLength         = 46
	contentLinkExtendedLength = 49
)

// ValidateContentLink проверяет только формат ссылки на документ, не её содержимое.
func ValidateContentLink(link string) error {
	if len(link) != contentLinkLength && len(link) != contentLinkExtendedLength {
		return apperror.ErrInvalidContentLink
	}
	for i := 0; i < len(link); i++ {
		c := link[i]
		isDigit := c >= '0' && c <= '9'
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isDigit && !isLetter {
			return apperror.ErrInvalidContentLink
		}
	}
	return nil
}

const maxRationaleLength = 254

func ValidateRationale(text string) error {
	if len(text) == 0 || len(text) > maxRationaleLength {
		return apperror.ErrInvalidRationale
	}
	return nil
}
