package dataflows

import (
	"regexp"
	"strings"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// validFirstDigits covers SH (6/9), SZ main/SME (0/2/3), indexes and the
// Beijing boards (1/8). Anything else is not an A-share code.
const validFirstDigits = "0123689"

// SymbolValidation is the outcome of a syntactic symbol check.
type SymbolValidation struct {
	Valid   bool
	Message string
}

// ValidateSymbolFormat checks that a symbol is a Shanghai/Shenzhen stock code:
// a 6-digit number with an optional case-insensitive sh/sz prefix, first
// digit in {0,1,2,3,6,8,9}. Purely syntactic; no network access.
func ValidateSymbolFormat(symbol string) SymbolValidation {
	code := strings.ToLower(strings.TrimSpace(symbol))

	if strings.HasPrefix(code, "sh") || strings.HasPrefix(code, "sz") {
		code = code[2:]
	}

	if !sixDigits.MatchString(code) {
		return SymbolValidation{
			Valid:   false,
			Message: "股票代码应为6位数字（如: 600519, 000001, sh600519）",
		}
	}

	if !strings.ContainsRune(validFirstDigits, rune(code[0])) {
		return SymbolValidation{
			Valid:   false,
			Message: "不是有效的沪深股市代码（沪市以6/9开头，深市以0/2/3开头）",
		}
	}

	return SymbolValidation{Valid: true}
}

// NormalizeGID returns the market-prefixed code the Juhe API expects
// (sh600519 / sz000001), inferring the market from the first digit when the
// caller passed a bare 6-digit code.
func NormalizeGID(symbol string) string {
	code := strings.ToLower(strings.TrimSpace(symbol))
	if strings.HasPrefix(code, "sh") || strings.HasPrefix(code, "sz") {
		return code
	}
	if len(code) == 0 {
		return code
	}
	switch code[0] {
	case '6', '9':
		return "sh" + code
	default:
		return "sz" + code
	}
}
