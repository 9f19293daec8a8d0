package atlas

import "testing"

func TestAtlasLayout(t *testing.T) {
	a := New(16, []string{"block/stone", "block/dirt", "block/stone", "", Missing})

	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
	if a.Size() != 32 {
		t.Errorf("Size = %d, want 32", a.Size())
	}
	if got := a.Names(); got[0] != Missing || got[1] != "block/dirt" || got[2] != "block/stone" {
		t.Errorf("Names = %v", got)
	}

	missing, _ := a.Lookup(Missing)
	if missing != (Rect{0, 0, 0.5, 0.5}) {
		t.Errorf("missing rect = %+v", missing)
	}
	stone, ok := a.Lookup("block/stone")
	if !ok || stone != (Rect{0, 0.5, 0.5, 1}) {
		t.Errorf("stone rect = %+v, %v", stone, ok)
	}
}

func TestAtlasSpriteFallback(t *testing.T) {
	a := New(16, []string{"block/stone"})
	if _, ok := a.Lookup("block/nope"); ok {
		t.Error("Lookup of unknown sprite should fail")
	}
	if got, want := a.Sprite("block/nope"), a.Sprite(Missing); got != want {
		t.Errorf("Sprite(unknown) = %+v, want missing %+v", got, want)
	}
}

func TestRectMap(t *testing.T) {
	r := Rect{U0: 0.25, V0: 0.5, U1: 0.5, V1: 1}
	tests := []struct{ u, v, wu, wv float32 }{
		{0, 0, 0.25, 0.5},
		{1, 1, 0.5, 1},
		{0.5, 0.5, 0.375, 0.75},
	}
	for _, tt := range tests {
		u, v := r.Map(tt.u, tt.v)
		if u != tt.wu || v != tt.wv {
			t.Errorf("Map(%v,%v) = (%v,%v), want (%v,%v)", tt.u, tt.v, u, v, tt.wu, tt.wv)
		}
	}
}

func TestAtlasOrderIndependent(t *testing.T) {
	a := New(16, []string{"c", "a", "b"})
	b := New(16, []string{"b", "c", "a"})
	for _, n := range []string{"a", "b", "c", Missing} {
		if a.Sprite(n) != b.Sprite(n) {
			t.Errorf("sprite %q differs by input order", n)
		}
	}
}
