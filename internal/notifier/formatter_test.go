package notifier

import (
	"strings"
	"testing"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

func TestFormatSignalAlert(t *testing.T) {
	groups := []model.GroupResult{
		{Name: "Commodities", Rows: []model.Row{
			{Asset: "Gold", Symbol: "GC=F", Outcome: model.OutcomeOK, Signal: model.SignalLong},
			{Asset: "Silver", Symbol: "SI=F", Outcome: model.OutcomeOK, Signal: model.SignalNone},
		}},
		{Name: "Indices", Rows: []model.Row{
			{Asset: "S&P 500", Symbol: "^GSPC", Outcome: model.OutcomeOK, Signal: model.SignalShort},
		}},
	}

	msg := FormatSignalAlert(groups)
	if !strings.Contains(msg, "Gold (GC=F)") {
		t.Errorf("missing long entry: %s", msg)
	}
	if !strings.Contains(msg, "S&P 500 (^GSPC)") {
		t.Errorf("missing short entry: %s", msg)
	}
	if strings.Contains(msg, "Silver") {
		t.Errorf("unsignaled instrument must not appear: %s", msg)
	}
}

func TestFormatSignalAlert_NoSignals(t *testing.T) {
	groups := []model.GroupResult{
		{Name: "Commodities", Rows: []model.Row{
			{Asset: "Gold", Symbol: "GC=F", Outcome: model.OutcomeOK, Signal: model.SignalNone},
			{Asset: "Silver", Symbol: "SI=F", Outcome: model.OutcomeNoData, Signal: model.SignalNone},
		}},
	}
	if msg := FormatSignalAlert(groups); msg != "" {
		t.Errorf("expected empty message, got %q", msg)
	}
}
