package scraper

import (
	"testing"
)

func TestChecksumIsDeterministic(t *testing.T) {
	reading := validReading()

	first, ok := Checksum(reading)
	if !ok {
		t.Fatal("Expected canonical checksum path")
	}
	second, _ := Checksum(reading)

	if first != second {
		t.Errorf("Checksum not deterministic: %s vs %s", first, second)
	}
	if len(first) != 32 {
		t.Errorf("Expected 32-character hex digest, got %d characters", len(first))
	}
}

func TestChecksumIgnoresMetadata(t *testing.T) {
	a := validReading()
	b := validReading()
	b.Metadata.Source = "SomeOtherSource"
	b.Metadata.SourceURL = "https://mirror.example.com/100225"

	sumA, _ := Checksum(a)
	sumB, _ := Checksum(b)

	if sumA != sumB {
		t.Errorf("Metadata must not affect checksum: %s vs %s", sumA, sumB)
	}
}

func TestChecksumIgnoresLiturgicalInfo(t *testing.T) {
	// Only date and the four sections are content-bearing.
	a := validReading()
	b := validReading()
	b.Liturgical.LiturgicalTitle = "Completely Different Title"

	sumA, _ := Checksum(a)
	sumB, _ := Checksum(b)

	if sumA != sumB {
		t.Errorf("Liturgical info must not affect checksum: %s vs %s", sumA, sumB)
	}
}

func TestChecksumChangesWithContent(t *testing.T) {
	base, _ := Checksum(validReading())

	mutations := []func(*Reading){
		func(r *Reading) { r.Date = "2025-10-03" },
		func(r *Reading) { r.Gospel.Text = r.Gospel.Text + " amended" },
		func(r *Reading) { r.FirstReading.Citation = "Gn 1:1" },
		func(r *Reading) { r.Psalm.Response = "R. A different refrain." },
		func(r *Reading) { r.SecondReading = r.Gospel },
		func(r *Reading) { r.Psalm = nil },
	}

	for i, mutate := range mutations {
		reading := validReading()
		mutate(reading)
		sum, _ := Checksum(reading)
		if sum == base {
			t.Errorf("Mutation %d did not change the checksum", i)
		}
	}
}

func TestChecksumPreservesNonASCII(t *testing.T) {
	a := validReading()
	a.Psalm.Response = "℟. To you, O Lord, I lift my soul."
	b := validReading()
	b.Psalm.Response = "R. To you, O Lord, I lift my soul."

	sumA, okA := Checksum(a)
	sumB, okB := Checksum(b)

	if !okA || !okB {
		t.Fatal("Expected canonical checksum path")
	}
	if sumA == sumB {
		t.Error("Glyph and latin refrain markers must hash differently")
	}
}

func TestVerifyChecksum(t *testing.T) {
	reading := validReading()
	sum, _ := Checksum(reading)

	if !VerifyChecksum(reading, sum) {
		t.Error("Expected checksum to verify against itself")
	}

	reading.Gospel.Text = reading.Gospel.Text + " drifted"
	if VerifyChecksum(reading, sum) {
		t.Error("Expected drifted content to fail verification")
	}
}
