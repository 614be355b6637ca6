package intervals

import (
	"fmt"
	"strings"

	"github.com/quantalpha/quantalpha/internal/models"
)

var kindLabels = map[models.IntervalKind]string{
	models.KindTargetPrice:  "目标价",
	models.KindStopLoss:     "止损",
	models.KindSupport:      "支撑位",
	models.KindResistance:   "压力位",
	models.KindUnclassified: "未分类",
}

// Report renders a ValidationOutcome as the fixed-format appendix attached
// to the GM output. Returns ok=false when there is nothing to report;
// callers must check before appending.
func Report(outcome models.ValidationOutcome) (string, bool) {
	if len(outcome.Adjustments) == 0 && len(outcome.Warnings) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("⚠️ 数值区间自动校验\n")

	if len(outcome.Adjustments) > 0 {
		b.WriteString("\n调整项:\n")
		for i, adj := range outcome.Adjustments {
			fmt.Fprintf(&b, "%d. [%s] %s → %s（%s）\n",
				i+1,
				kindLabels[adj.Original.Kind],
				formatBounds(adj.Original),
				formatBounds(adj.Adjusted),
				adj.Reason)
		}
	}

	if len(outcome.Warnings) > 0 {
		b.WriteString("\n警告:\n")
		for _, w := range outcome.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String(), true
}

func formatBounds(iv models.Interval) string {
	if iv.Unit == models.UnitPercent {
		return fmt.Sprintf("%.0f%%-%.0f%%", iv.Lower, iv.Upper)
	}
	return fmt.Sprintf("%.2f-%.2f元", iv.Lower, iv.Upper)
}
