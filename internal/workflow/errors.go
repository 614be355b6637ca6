package workflow

import (
	"errors"
	"fmt"

	"github.com/quantalpha/quantalpha/internal/models"
)

// ErrNotIdle is returned when a run is requested while a previous one is
// still in flight or has not been reset.
var ErrNotIdle = errors.New("workflow is not idle; reset before starting a new run")

// InputValidationError: the symbol failed the format check. Reported before
// any side effect; the run never starts.
type InputValidationError struct {
	Symbol  string
	Message string
}

func (e *InputValidationError) Error() string {
	return e.Message
}

// DataUnavailableError: the market-data collaborator returned no quote.
// The run halts before any stage executes.
type DataUnavailableError struct {
	Symbol string
	Cause  error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("无法获取股票 %s 的实时数据。请检查：\n1. 股票代码是否正确（如: 600519, 000001, 300750）\n2. 是否为沪深股市代码（不支持港股/美股）\n3. 数据源服务是否正常", e.Symbol)
	if e.Cause != nil {
		msg += "\n底层错误: " + e.Cause.Error()
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error { return e.Cause }

// StageExecutionError: an agent call inside a stage failed. The underlying
// error passes through unchanged so the seat's message survives verbatim.
type StageExecutionError struct {
	Tier models.Tier
	Err  error
}

func (e *StageExecutionError) Error() string {
	return e.Err.Error()
}

func (e *StageExecutionError) Unwrap() error { return e.Err }
