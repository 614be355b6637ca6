package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/quantalpha/quantalpha/internal/dataflows"
)

// PromptForSymbol asks for an A-share code, validating the format inline.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "输入沪深股票代码 (如: 600519, sz000001):",
		Help:    "6位数字代码，可带 sh/sz 前缀；沪市以6/9开头，深市以0/2/3开头",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if v := dataflows.ValidateSymbolFormat(str); !v.Valid {
			return fmt.Errorf("%s", v.Message)
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(symbol)), nil
}

// PromptContinue asks whether to analyze another symbol.
func PromptContinue() bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: "继续分析其他股票?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false
	}
	return confirmed
}
