package model

import "testing"

func TestTypeColorIsDeterministic(t *testing.T) {
	for i := 0; i < len(Palette)*2; i++ {
		first := TypeColor(i)
		second := TypeColor(i)
		if first != second {
			t.Fatalf("assignment for index %d not stable: %s vs %s", i, first, second)
		}
	}
	if TypeColor(0) != Palette[0] {
		t.Errorf("first type should get the first palette color, got %s", TypeColor(0))
	}
	if TypeColor(len(Palette)) != Palette[0] {
		t.Errorf("palette should cycle, got %s", TypeColor(len(Palette)))
	}
}

func TestTypeColorNegativeIndex(t *testing.T) {
	if TypeColor(-3) != Palette[0] {
		t.Errorf("negative index should clamp to the first color, got %s", TypeColor(-3))
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#E69F00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.R != 0xE6 || c.G != 0x9F || c.B != 0x00 || c.A != 255 {
		t.Errorf("parsed wrong channels: %+v", c)
	}

	if _, err := ParseHexColor("not-a-color"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestHexColorRoundTrip(t *testing.T) {
	for _, hex := range Palette {
		c, err := ParseHexColor(hex)
		if err != nil {
			t.Fatalf("palette entry %s failed to parse: %v", hex, err)
		}
		if got := FormatHexColor(c); got != hex {
			t.Errorf("round trip changed %s to %s", hex, got)
		}
	}
}
