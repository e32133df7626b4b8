package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"24h"`, want: 24 * time.Hour},
		{name: "seconds string", in: `"300s"`, want: 300 * time.Second},
		{name: "integer nanos", in: `1000000000`, want: time.Second},
		{name: "garbage string", in: `"later"`, wantErr: true},
		{name: "wrong type", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Duration != tt.want {
				t.Fatalf("got %v, want %v", d.Duration, tt.want)
			}
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 7 * 24 * time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"168h0m0s"` {
		t.Fatalf("unexpected output: %s", b)
	}
}
