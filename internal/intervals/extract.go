package intervals

import (
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/quantalpha/quantalpha/internal/models"
)

// rangePattern matches numeric range expressions the panel's models tend to
// produce: "¥100-120", "120元~135元", "10%-15%", "120到135元".
var rangePattern = regexp.MustCompile(
	`[¥￥$]?\s*(\d+(?:\.\d+)?)\s*(?:元|%|％)?\s*(?:[-–—~～]|到|至)\s*[¥￥$]?\s*(\d+(?:\.\d+)?)\s*(元|%|％)?`)

// kindKeywords maps semantic kinds to the keywords whose proximity
// classifies a range. Checked nearest-first.
var kindKeywords = map[models.IntervalKind][]string{
	models.KindStopLoss:    {"止损", "止損", "stop-loss", "stop loss", "stoploss"},
	models.KindTargetPrice: {"目标价", "目标区间", "目标", "target"},
	models.KindSupport:     {"支撑", "support"},
	models.KindResistance:  {"压力", "阻力", "resistance"},
}

// proximityWindow is how many bytes around a range expression are searched
// for a classifying keyword.
const proximityWindow = 36

// Extract scans free text for numeric range expressions and yields one
// Interval per occurrence, in order of first appearance. The sequence is
// lazy, finite and restartable; no ranges found means an empty sequence,
// not an error.
func Extract(text string) iter.Seq[models.Interval] {
	return func(yield func(models.Interval) bool) {
		offset := 0
		for offset < len(text) {
			loc := rangePattern.FindStringSubmatchIndex(text[offset:])
			if loc == nil {
				return
			}

			start := offset + loc[0]
			end := offset + loc[1]
			lower, err1 := strconv.ParseFloat(text[offset+loc[2]:offset+loc[3]], 64)
			upper, err2 := strconv.ParseFloat(text[offset+loc[4]:offset+loc[5]], 64)
			offset = end
			if err1 != nil || err2 != nil {
				continue
			}

			span := text[start:end]
			iv := models.Interval{
				Kind:       classify(text, start, end),
				Lower:      lower,
				Upper:      upper,
				Unit:       detectUnit(span),
				SourceText: span,
				Start:      start,
				End:        end,
			}
			if !yield(iv) {
				return
			}
		}
	}
}

// detectUnit reports percent when the span itself carries a percent sign.
func detectUnit(span string) models.IntervalUnit {
	if strings.ContainsAny(span, "%％") {
		return models.UnitPercent
	}
	return models.UnitAbsolute
}

// classify picks the semantic kind whose keyword sits closest to the range
// expression, searching a fixed window on both sides.
func classify(text string, start, end int) models.IntervalKind {
	lo := start - proximityWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + proximityWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := strings.ToLower(text[lo:hi])
	anchor := start - lo

	best := models.KindUnclassified
	bestDist := len(window) + 1
	for _, kind := range []models.IntervalKind{
		models.KindStopLoss, models.KindTargetPrice, models.KindSupport, models.KindResistance,
	} {
		for _, kw := range kindKeywords[kind] {
			idx := strings.Index(window, kw)
			for idx >= 0 {
				dist := anchor - (idx + len(kw))
				if dist < 0 {
					dist = idx - (end - lo)
				}
				if dist < 0 {
					dist = 0
				}
				if dist < bestDist {
					bestDist = dist
					best = kind
				}
				next := strings.Index(window[idx+1:], kw)
				if next < 0 {
					break
				}
				idx = idx + 1 + next
			}
		}
	}
	return best
}
