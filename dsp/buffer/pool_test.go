package buffer

import "testing"

func TestPoolGetReturnsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(2, 8)
	if b.Channels() != 2 || b.Frames() != 8 {
		t.Fatalf("geometry = %dx%d, want 2x8", b.Channels(), b.Frames())
	}
	b.Channel(1)[4] = 42
	p.Put(b)

	b2 := p.Get(2, 8)
	for c := range 2 {
		for i, v := range b2.Channel(c) {
			if v != 0 {
				t.Fatalf("reused channel %d frame %d = %v, want 0", c, i, v)
			}
		}
	}
	p.Put(b2)
}

func TestPoolPutNil(t *testing.T) {
	NewPool().Put(nil)
}
