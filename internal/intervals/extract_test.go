package intervals

import (
	"testing"

	"github.com/quantalpha/quantalpha/internal/models"
)

func collect(text string) []models.Interval {
	var out []models.Interval
	for iv := range Extract(text) {
		out = append(out, iv)
	}
	return out
}

func TestExtractCurrencyRange(t *testing.T) {
	got := collect("综合来看，目标价区间为¥100-120。")
	if len(got) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(got))
	}
	iv := got[0]
	if iv.Lower != 100 || iv.Upper != 120 {
		t.Fatalf("bounds = %v-%v, want 100-120", iv.Lower, iv.Upper)
	}
	if iv.Kind != models.KindTargetPrice {
		t.Fatalf("kind = %s, want target_price", iv.Kind)
	}
	if iv.Unit != models.UnitAbsolute {
		t.Fatalf("unit = %s, want absolute", iv.Unit)
	}
}

func TestExtractYuanAndTildeSeparators(t *testing.T) {
	got := collect("支撑位在95至98元附近，压力位120元~135元。")
	if len(got) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(got))
	}
	if got[0].Kind != models.KindSupport || got[0].Lower != 95 || got[0].Upper != 98 {
		t.Fatalf("first interval wrong: %+v", got[0])
	}
	if got[1].Kind != models.KindResistance || got[1].Lower != 120 || got[1].Upper != 135 {
		t.Fatalf("second interval wrong: %+v", got[1])
	}
}

func TestExtractPercentRange(t *testing.T) {
	got := collect("预计回撤幅度10%-15%。")
	if len(got) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(got))
	}
	if got[0].Unit != models.UnitPercent {
		t.Fatalf("unit = %s, want percent", got[0].Unit)
	}
	if got[0].Kind != models.KindUnclassified {
		t.Fatalf("kind = %s, want unclassified", got[0].Kind)
	}
}

func TestExtractStopLossKeyword(t *testing.T) {
	got := collect("建议止损位设在88元至92元之间。")
	if len(got) != 1 || got[0].Kind != models.KindStopLoss {
		t.Fatalf("expected one stop_loss interval, got %+v", got)
	}
}

func TestExtractByteSpans(t *testing.T) {
	text := "目标价区间为100-120元，请注意。"
	got := collect(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(got))
	}
	iv := got[0]
	if text[iv.Start:iv.End] != iv.SourceText {
		t.Fatalf("span [%d:%d] = %q, SourceText = %q", iv.Start, iv.End, text[iv.Start:iv.End], iv.SourceText)
	}
}

func TestExtractNoRanges(t *testing.T) {
	if got := collect("市场情绪整体偏暖，建议持有。"); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %+v", got)
	}
}

func TestExtractRestartableAndLazy(t *testing.T) {
	text := "目标价100-120元，止损85-88元，支撑90-95元。"
	seq := Extract(text)

	var first []models.Interval
	for iv := range seq {
		first = append(first, iv)
	}

	// Second pass over the same sequence yields identical results.
	var second []models.Interval
	for iv := range seq {
		second = append(second, iv)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 intervals on each pass, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pass mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	// Early break stops the iteration cleanly.
	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected early break after 1, got %d", count)
	}
}

func TestClassifyPicksNearestKeyword(t *testing.T) {
	text := "目标价为110-120元，而止损位应设在92-95元。"
	got := collect(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(got))
	}
	if got[0].Kind != models.KindTargetPrice {
		t.Fatalf("first kind = %s, want target_price", got[0].Kind)
	}
	if got[1].Kind != models.KindStopLoss {
		t.Fatalf("second kind = %s, want stop_loss", got[1].Kind)
	}
}
