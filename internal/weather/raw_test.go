package weather

import (
	"encoding/json"
	"testing"
)

func TestEpochJSON(t *testing.T) {
	tests := []struct {
		in      string
		epoch   Epoch
		encoded string
	}{
		{`1700000000`, "1700000000", `1700000000`},
		{`"1700000000"`, "1700000000", `1700000000`},
		{`"soon"`, "soon", `"soon"`},
		{`1.5`, "1.5", `"1.5"`},
	}

	for _, tt := range tests {
		var e Epoch
		if err := json.Unmarshal([]byte(tt.in), &e); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		if e != tt.epoch {
			t.Fatalf("%s: expected %q, got %q", tt.in, tt.epoch, e)
		}

		out, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		if string(out) != tt.encoded {
			t.Fatalf("%s: expected %s, got %s", tt.in, tt.encoded, out)
		}
	}
}

func TestDecodeForecast(t *testing.T) {
	payload := `{
		"city": {"name": "Paris", "country": "FR", "timezone": 3600},
		"list": [
			{"dt": 1700000000, "main": {"temp": 10, "feels_like": 9, "humidity": 70}, "wind": {"speed": 1}, "weather": [{"main": "Rain"}], "dt_txt": "2023-11-14 22:13:20"}
		]
	}`

	raw, err := DecodeForecast([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.City == nil || raw.City.Name != "Paris" || raw.City.Country != "FR" {
		t.Fatalf("unexpected city %+v", raw.City)
	}
	if len(raw.List) != 1 || raw.List[0].Dt == nil || *raw.List[0].Dt != "1700000000" {
		t.Fatalf("unexpected list %+v", raw.List)
	}
}
