package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	got := v.Length()
	want := float32(7)
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Sub(t *testing.T) {
	got := Vec3{5, 5, 5}.Sub(Vec3{1, 2, 3})
	want := Vec3{4, 3, 2}
	if got != want {
		t.Errorf("Vec3.Sub() = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec3
		lo, hi Vec3
		ok     bool
	}{
		{"empty", nil, Vec3{}, Vec3{}, false},
		{"single", []Vec3{{1, 2, 3}}, Vec3{1, 2, 3}, Vec3{1, 2, 3}, true},
		{"spread", []Vec3{{1, -2, 3}, {-1, 4, 0}, {0, 0, 9}}, Vec3{-1, -2, 0}, Vec3{1, 4, 9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := Bounds(tt.points)
			if ok != tt.ok || lo != tt.lo || hi != tt.hi {
				t.Errorf("Bounds() = %v, %v, %v; want %v, %v, %v", lo, hi, ok, tt.lo, tt.hi, tt.ok)
			}
		})
	}
}

func TestVec2Key(t *testing.T) {
	if (Vec2{0, 0}).Key() != (Vec2{float32(math32.Copysign(0, -1)), 0}).Key() {
		t.Error("negative zero should share a key with zero")
	}
	if (Vec2{0.5, 0.25}).Key() == (Vec2{0.25, 0.5}).Key() {
		t.Error("swapped components must not collide")
	}
	if (Vec2{3, 4}).Sub(Vec2{0, 0}).Length() != 5 {
		t.Error("Vec2.Length() of (3,4) should be 5")
	}
}

func TestAffineApply(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
		in   Vec3
		want Vec3
	}{
		{"identity", IdentityAffine(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"translate", Affine{1, 0, 0, 10, 0, 1, 0, 20, 0, 0, 1, 30}, Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Affine{2, 0, 0, 0, 0, 3, 0, 0, 0, 0, 4, 0}, Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{"swap xy", Affine{0, 1, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0}, Vec3{1, 2, 3}, Vec3{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.in); got != tt.want {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}

	if !IdentityAffine().IsIdentity() {
		t.Error("IdentityAffine().IsIdentity() = false")
	}
	if (Affine{1, 0, 0, 10, 0, 1, 0, 20, 0, 0, 1, 30}).Translation() != (Vec3{10, 20, 30}) {
		t.Error("Translation() mismatch")
	}
}
