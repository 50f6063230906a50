package layout

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMeanConfidence(t *testing.T) {
	tests := []struct {
		name string
		page *Page
		want float64
	}{
		{"nil page", nil, 0},
		{"no words", &Page{Text: "x"}, 0},
		{"single word", &Page{Words: []Word{{Text: "250g", Confidence: 0.9}}}, 0.9},
		{"average", &Page{Words: []Word{{Confidence: 0.5}, {Confidence: 1.0}}}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.MeanConfidence(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MeanConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWord_JSONShape(t *testing.T) {
	w := Word{Text: "A1B2C3D", Confidence: 0.87, Bounds: Bounds{X1: 1, Y1: 2, X2: 30, Y2: 12}}
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"text":"A1B2C3D","confidence":0.87,"bounds":{"x1":1,"y1":2,"x2":30,"y2":12}}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}
