package detect

import (
	"context"
	"testing"
	"time"

	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/models"
)

func datedDoc(id string, date string) *models.Document {
	d := &models.Document{ID: id}
	if date != "" {
		t, _ := time.Parse("2006-01-02", date)
		d.Date = &t
	}
	return d
}

func TestTemporalDetector(t *testing.T) {
	d := NewTemporalDetector(config.DefaultDetectConfig()) // 30 day window

	tests := []struct {
		name    string
		a, b    string
		want    float64
		wantHit bool
	}{
		{name: "same day", a: "2024-03-15", b: "2024-03-15", want: 1.0, wantHit: true},
		{name: "half window", a: "2024-03-01", b: "2024-03-16", want: 0.5, wantHit: true},
		{name: "window edge", a: "2024-03-01", b: "2024-03-31", want: 0.0, wantHit: true},
		{name: "outside window", a: "2024-03-01", b: "2024-04-01", wantHit: false},
		{name: "order independent", a: "2024-03-16", b: "2024-03-01", want: 0.5, wantHit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(context.Background(), datedDoc("doc:a", tt.a), datedDoc("doc:b", tt.b))
			if !tt.wantHit {
				if len(got) != 0 {
					t.Fatalf("Detect() = %v, want no evidence", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("Detect() returned %d evidence, want 1", len(got))
			}
			ev := got[0]
			if ev.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", ev.Confidence, tt.want)
			}
			if ev.Method != models.MethodTemporalCorrelation {
				t.Errorf("Method = %s, want %s", ev.Method, models.MethodTemporalCorrelation)
			}
			if ev.Type != models.RelationTemporal {
				t.Errorf("Type = %s, want %s", ev.Type, models.RelationTemporal)
			}
		})
	}
}

func TestTemporalDetectorMissingDates(t *testing.T) {
	d := NewTemporalDetector(config.DefaultDetectConfig())

	dated := datedDoc("doc:a", "2024-03-15")
	undated := datedDoc("doc:b", "")

	if got := d.Detect(context.Background(), dated, undated); len(got) != 0 {
		t.Errorf("Detect() with one undated doc = %v, want no evidence", got)
	}
	if got := d.Detect(context.Background(), undated, undated); len(got) != 0 {
		t.Errorf("Detect() with both undated = %v, want no evidence", got)
	}
}
