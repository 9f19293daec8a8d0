package world

import (
	"math/rand"
	"testing"
)

func TestSectionDefaultsToAir(t *testing.T) {
	for _, size := range []int{SectionSize, LargeSectionSize} {
		s := NewSection(size)
		if !s.IsEmpty() {
			t.Errorf("size %d: new section not empty", size)
		}
		for _, c := range [][3]int{{0, 0, 0}, {size - 1, size - 1, size - 1}, {3, 7, 1}} {
			if got := s.Get(c[0], c[1], c[2]); got != Air {
				t.Errorf("size %d: Get%v = %d, want air", size, c, got)
			}
		}
	}
}

func TestSectionIndexOrder(t *testing.T) {
	s := NewSection(SectionSize)
	tests := []struct {
		x, y, z int
		want    int
	}{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{1, 0, 0, 16},
		{0, 1, 0, 256},
		{15, 15, 15, 4095},
		{2, 3, 4, 3*256 + 2*16 + 4},
	}
	for _, tt := range tests {
		if got := s.Index(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("Index(%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestSectionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{SectionSize, LargeSectionSize} {
		s := NewSection(size)
		want := make(map[[3]int]StateID)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				for z := 0; z < size; z++ {
					v := StateID(rng.Intn(1 << 16))
					s.Set(x, y, z, v)
					want[[3]int{x, y, z}] = v
				}
			}
		}
		nonAir := 0
		for c, v := range want {
			if got := s.Get(c[0], c[1], c[2]); got != v {
				t.Fatalf("size %d: Get%v = %d, want %d", size, c, got, v)
			}
			if v != Air {
				nonAir++
			}
		}
		if s.NonAir() != nonAir {
			t.Errorf("size %d: NonAir = %d, want %d", size, s.NonAir(), nonAir)
		}
	}
}

func TestSectionLightNibbles(t *testing.T) {
	s := NewSection(SectionSize)
	for v := uint8(0); v < 16; v++ {
		s.SetBlockLight(1, 2, 3, v)
		s.SetSkyLight(1, 2, 3, 15-v)
		block, sky := s.Light(1, 2, 3)
		if block != v || sky != 15-v {
			t.Errorf("Light = (%d,%d), want (%d,%d)", block, sky, v, 15-v)
		}
	}

	// Values wider than a nibble are masked and don't bleed into the other half.
	s.SetBlockLight(0, 0, 0, 0xFF)
	if got := s.SkyLight(0, 0, 0); got != 0 {
		t.Errorf("SkyLight after wide block light = %d, want 0", got)
	}
	if got := s.BlockLight(0, 0, 0); got != 15 {
		t.Errorf("BlockLight = %d, want 15", got)
	}
}

func TestSectionNonAirCount(t *testing.T) {
	s := NewSection(SectionSize)
	s.Set(0, 0, 0, 5)
	s.Set(0, 0, 0, 6)
	s.Set(1, 0, 0, 6)
	if s.NonAir() != 2 {
		t.Errorf("NonAir = %d, want 2", s.NonAir())
	}
	s.Set(0, 0, 0, Air)
	s.Set(1, 0, 0, Air)
	if !s.IsEmpty() {
		t.Error("section should be empty after clearing")
	}
	s.Fill(3)
	if s.NonAir() != 4096 {
		t.Errorf("NonAir after Fill = %d, want 4096", s.NonAir())
	}
}

func TestSectionOutOfRangePanics(t *testing.T) {
	s := NewSection(SectionSize)
	tests := []struct {
		name string
		f    func()
	}{
		{"Get(16,0,0)", func() { s.Get(16, 0, 0) }},
		{"Set(0,-1,0)", func() { s.Set(0, -1, 0, 1) }},
		{"Index(0,0,16)", func() { s.Index(0, 0, 16) }},
		{"Index(-1,0,0)", func() { s.Index(-1, 0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tt.name)
				}
			}()
			tt.f()
		})
	}
}

func TestChunkGetBlockAtPos(t *testing.T) {
	c := NewChunk(ChunkPos{X: 1, Z: -1}, 4, SectionSize, nil)
	c.SetBlockAtPos(3, 40, 5, 9)

	if got := c.GetBlockAtPos(3, 40, 5); got != 9 {
		t.Errorf("GetBlockAtPos(3,40,5) = %d, want 9", got)
	}
	if got := c.Sections[2].Get(3, 8, 5); got != 9 {
		t.Errorf("section 2 local (3,8,5) = %d, want 9", got)
	}
	for _, y := range []int{-1, 64, 1000} {
		if got := c.GetBlockAtPos(3, y, 5); got != Air {
			t.Errorf("GetBlockAtPos(3,%d,5) = %d, want air", y, got)
		}
	}
}

type oddTransparent struct{}

func (oddTransparent) IsTransparent(s StateID) bool { return s%2 == 1 }

func TestChunkHeightmap(t *testing.T) {
	c := NewChunk(ChunkPos{}, 4, SectionSize, oddTransparent{})

	if got := c.Heightmap().Top(2, 2); got != -1 {
		t.Fatalf("empty column top = %d, want -1", got)
	}

	c.SetBlockAtPos(2, 10, 2, 2) // opaque
	c.SetBlockAtPos(2, 30, 2, 3) // transparent
	col := c.Heightmap().Column(2, 2)
	if col.Opaque != 10 || col.Transparent != 30 {
		t.Errorf("column = %+v, want opaque 10 transparent 30", col)
	}

	c.SetBlockAtPos(2, 20, 2, 4)
	c.SetBlockAtPos(2, 30, 2, Air)
	col = c.Heightmap().Column(2, 2)
	if col.Opaque != 20 || col.Transparent != -1 {
		t.Errorf("column after removal = %+v, want opaque 20 transparent -1", col)
	}

	c.SetBlockAtPos(2, 20, 2, Air)
	if got := c.Heightmap().Top(2, 2); got != 10 {
		t.Errorf("top after second removal = %d, want 10", got)
	}

	// Swapping a column top for the other kind moves both heights.
	c.SetBlockAtPos(2, 10, 2, 5)
	col = c.Heightmap().Column(2, 2)
	if col.Opaque != -1 || col.Transparent != 10 {
		t.Errorf("column after opaque->transparent = %+v, want opaque -1 transparent 10", col)
	}
	c.SetBlockAtPos(2, 4, 2, 2)
	c.SetBlockAtPos(2, 10, 2, 6)
	col = c.Heightmap().Column(2, 2)
	if col.Opaque != 10 || col.Transparent != -1 {
		t.Errorf("column after transparent->opaque = %+v, want opaque 10 transparent -1", col)
	}
	c.SetBlockAtPos(2, 10, 2, 7)
	col = c.Heightmap().Column(2, 2)
	if col.Opaque != 4 || col.Transparent != 10 {
		t.Errorf("column after second swap = %+v, want opaque 4 transparent 10", col)
	}

	// Direct section writes need an explicit recompute.
	c.Sections[3].Set(2, 15, 2, 2)
	c.RecomputeHeightmap()
	if got := c.Heightmap().Top(2, 2); got != 63 {
		t.Errorf("top after recompute = %d, want 63", got)
	}
}
