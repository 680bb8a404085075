package notification

import (
	"testing"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatErrorAlertIncludesExecutionErrorPair(t *testing.T) {
	err := core.NewExecutionError("BTCUSDT", "exit submission failed after retry budget exhausted")
	msg := formatErrorAlert(err)

	assert.Contains(t, msg, "Pair: BTCUSDT")
	assert.Contains(t, msg, "exit submission failed after retry budget exhausted")
}

func TestFormatErrorAlertPlainErrorOmitsPairLine(t *testing.T) {
	msg := formatErrorAlert(assert.AnError)

	assert.NotContains(t, msg, "Pair:")
	assert.Contains(t, msg, assert.AnError.Error())
}
