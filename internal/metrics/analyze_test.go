package metrics

import (
	"encoding/json"
	"strings"
	"testing"

	"fta/internal/syntax"
)

func TestAnalyze_SwitchCase(t *testing.T) {
	fm := Analyze(switchFixture(), 10)

	if fm.Cyclo != 3 {
		t.Errorf("Cyclo = %d, want 3", fm.Cyclo)
	}
	if fm.LineCount != 10 {
		t.Errorf("LineCount = %d, want 10", fm.LineCount)
	}
	if fm.Halstead != Halstead(switchFixture()) {
		t.Errorf("Halstead mismatch: %+v", fm.Halstead)
	}
	if want := Score(10, 3, 14); fm.FTAScore != want {
		t.Errorf("FTAScore = %v, want %v", fm.FTAScore, want)
	}
	if fm.FileName != "" || fm.Assessment != "" {
		t.Errorf("Analyze should not name or assess: %+v", fm)
	}
}

func TestAnalyze_EmptyModule(t *testing.T) {
	fm := Analyze(syntax.N(syntax.Group), 0)

	if fm.Cyclo != 1 || fm.FTAScore != 0 || fm.Halstead != (HalsteadMetrics{}) {
		t.Errorf("Analyze(empty) = %+v", fm)
	}
}

func TestAnalyzeNamed(t *testing.T) {
	fm := AnalyzeNamed("src/switch.ts", switchFixture(), 10)

	if fm.FileName != "src/switch.ts" {
		t.Errorf("FileName = %q", fm.FileName)
	}
	if fm.Assessment != Assess(fm.FTAScore) {
		t.Errorf("Assessment = %q, want %q", fm.Assessment, Assess(fm.FTAScore))
	}
}

func TestFileMetrics_JSONShape(t *testing.T) {
	data, err := json.Marshal(Analyze(switchFixture(), 10))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(fields) != 4 {
		t.Errorf("unnamed metrics have %d fields, want 4: %s", len(fields), data)
	}
	for _, key := range []string{"cyclo", "halstead_metrics", "line_count", "fta_score"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}

	named, _ := json.Marshal(AnalyzeNamed("a.ts", switchFixture(), 10))
	for _, key := range []string{`"file_name":"a.ts"`, `"assessment":`} {
		if !strings.Contains(string(named), key) {
			t.Errorf("named metrics missing %s: %s", key, named)
		}
	}
}
