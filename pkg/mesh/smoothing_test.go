package mesh

import (
	"errors"
	"testing"
)

func TestSmoothingRoundTrip(t *testing.T) {
	for g := 0; g <= 32; g++ {
		mask, err := EncodeSmoothing(g)
		if err != nil {
			t.Fatalf("EncodeSmoothing(%d): %v", g, err)
		}
		if got := DecodeSmoothing(mask); got != g {
			t.Errorf("group %d -> mask 0x%08X -> %d", g, mask, got)
		}
	}
}

func TestEncodeSmoothing_Range(t *testing.T) {
	for _, g := range []int{-1, 33, 100} {
		if _, err := EncodeSmoothing(g); !errors.Is(err, ErrSmoothingGroup) {
			t.Errorf("EncodeSmoothing(%d) = %v, want ErrSmoothingGroup", g, err)
		}
	}
	if mask, _ := EncodeSmoothing(32); mask != 0x80000000 {
		t.Errorf("group 32 mask = 0x%08X", mask)
	}
}

func TestDecodeSmoothing_LowestBitWins(t *testing.T) {
	tests := []struct {
		mask uint32
		want int
	}{
		{0, 0},
		{0b1, 1},
		{0b110, 2},
		{0x80000000, 32},
		{0xFFFFFFFF, 1},
	}
	for _, tt := range tests {
		if got := DecodeSmoothing(tt.mask); got != tt.want {
			t.Errorf("DecodeSmoothing(0x%X) = %d, want %d", tt.mask, got, tt.want)
		}
	}
}

func TestParseSmoothing(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"off", 0, false},
		{"OFF", 0, false},
		{"0", 0, false},
		{" 7 ", 7, false},
		{"32", 32, false},
		{"33", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSmoothing(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGroupMaterials(t *testing.T) {
	groups := GroupMaterials([]string{"wood", "", "stone", "wood", ""})

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	want := []struct {
		name  string
		faces []int
		def   bool
	}{
		{"wood", []int{0, 3}, false},
		{"stone", []int{2}, false},
		{DefaultMaterial, []int{1, 4}, true},
	}
	for i, w := range want {
		g := groups[i]
		if g.Name != w.name || g.Default != w.def {
			t.Errorf("group %d = %q default=%v, want %q default=%v", i, g.Name, g.Default, w.name, w.def)
		}
		if len(g.Faces) != len(w.faces) {
			t.Errorf("group %d faces = %v, want %v", i, g.Faces, w.faces)
			continue
		}
		for j := range w.faces {
			if g.Faces[j] != w.faces[j] {
				t.Errorf("group %d faces = %v, want %v", i, g.Faces, w.faces)
				break
			}
		}
	}

	if got := GroupMaterials([]string{"a", "b"}); len(got) != 2 || got[1].Default {
		t.Errorf("no default group expected: %+v", got)
	}
}
