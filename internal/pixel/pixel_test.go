package pixel

import "testing"

func TestPackUnpack(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    uint32
	}{
		{"black", 0, 0, 0, 0x000000},
		{"white", 255, 255, 255, 0xFFFFFF},
		{"red", 255, 0, 0, 0xFF0000},
		{"green", 0, 255, 0, 0x00FF00},
		{"blue", 0, 0, 255, 0x0000FF},
		{"mixed", 0x12, 0x34, 0x56, 0x123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pack(tt.r, tt.g, tt.b)
			if p != tt.want {
				t.Fatalf("Pack(%d, %d, %d) = 0x%06X, want 0x%06X", tt.r, tt.g, tt.b, p, tt.want)
			}
			if got := Unpack(p, Red); got != tt.r {
				t.Errorf("red channel = %d, want %d", got, tt.r)
			}
			if got := Unpack(p, Green); got != tt.g {
				t.Errorf("green channel = %d, want %d", got, tt.g)
			}
			if got := Unpack(p, Blue); got != tt.b {
				t.Errorf("blue channel = %d, want %d", got, tt.b)
			}
		})
	}
}

func TestPackRejectsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Pack accepted an out-of-range channel value")
		}
	}()
	Pack(256, 0, 0)
}

func TestBufferAtSet(t *testing.T) {
	b := New(3, 2)
	if len(b.Data) != 6 {
		t.Fatalf("New(3, 2) allocated %d pixels, want 6", len(b.Data))
	}
	b.Set(2, 1, White)
	if got := b.At(2, 1); got != White {
		t.Errorf("At(2, 1) = 0x%06X, want white", got)
	}
	if got := b.At(0, 0); got != Black {
		t.Errorf("At(0, 0) = 0x%06X, want black", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(2, 2)
	b.Set(0, 0, Pack(1, 2, 3))
	c := b.Clone()
	c.Set(0, 0, White)
	if b.At(0, 0) == White {
		t.Error("mutating the clone changed the source buffer")
	}
	if !b.SameSize(c) {
		t.Error("clone has different dimensions")
	}
}
