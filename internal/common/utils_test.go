package common

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestValidCityName(t *testing.T) {
	valid := []string{"Paris", "New York", "Saint-Étienne", "L'Aquila", "St. John's", "São Paulo"}
	for _, s := range valid {
		if !ValidCityName(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "   ", "Paris1", "Paris;DROP", "<script>", "Tokyo/JP"}
	for _, s := range invalid {
		if ValidCityName(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestInitLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	if err := InitLogger("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logrus.GetLevel())
	}

	if err := InitLogger(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logrus.GetLevel())
	}

	if err := InitLogger("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
