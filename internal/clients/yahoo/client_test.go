package yahoo

import (
	"encoding/json"
	"testing"
)

func TestFlexFloat64(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`1234.5`, 1234.5},
		{`"1234.5"`, 1234.5},
		{`""`, 0},
		{`"N/A"`, 0},
		{`"garbage"`, 0},
		{`"nan"`, 0},
		{`"Infinity"`, 0},
		{`"-inf"`, 0},
	}

	for _, tc := range tests {
		var f flexFloat64
		if err := json.Unmarshal([]byte(tc.input), &f); err != nil {
			t.Errorf("unmarshal %s returned error: %v", tc.input, err)
			continue
		}
		if float64(f) != tc.want {
			t.Errorf("unmarshal %s = %v, want %v", tc.input, float64(f), tc.want)
		}
	}
}

func TestYfNumPtr(t *testing.T) {
	var missing *yfNum
	if missing.ptr() != nil {
		t.Error("nil wrapper should yield nil")
	}

	raw := flexFloat64(42.5)
	present := &yfNum{Raw: &raw}
	if got := present.ptr(); got == nil || *got != 42.5 {
		t.Errorf("expected 42.5, got %v", got)
	}
}
