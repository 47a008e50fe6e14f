package physics

import (
	"encoding/json"
	"testing"
)

func TestParseMaterial(t *testing.T) {
	cases := map[string]Material{
		"green":     MaterialGreen,
		"Fairway":   MaterialFairway,
		" rough ":   MaterialRough,
		"bunker":    MaterialBunker,
		"cart_path": MaterialCartPath,
		"cartPath":  MaterialCartPath,
		"water":     MaterialWater,
		"default":   MaterialDefault,
	}
	for in, want := range cases {
		got, err := ParseMaterial(in)
		if err != nil {
			t.Errorf("ParseMaterial(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMaterial(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseMaterial("lava"); err == nil {
		t.Error("expected an error for an unknown material")
	}
}

func TestMaterialJSONUsesNames(t *testing.T) {
	var got struct {
		Cells []Material `json:"cells"`
	}
	if err := json.Unmarshal([]byte(`{"cells":["green","cartPath","water"]}`), &got); err != nil {
		t.Fatal(err)
	}
	want := []Material{MaterialGreen, MaterialCartPath, MaterialWater}
	for i := range want {
		if got.Cells[i] != want[i] {
			t.Errorf("cell %d = %s, want %s", i, got.Cells[i], want[i])
		}
	}
}

func TestUnknownMaterialUsesDefaultFactors(t *testing.T) {
	if factorsFor(Material(99)) != factorsFor(MaterialDefault) {
		t.Error("unknown material should fall back to the default factors")
	}
}
