package bigendian

import "testing"

func TestGeqSameLength(t *testing.T) {
	cases := []struct {
		a, b []byte
		want bool
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 2}, true},
		{[]byte{1, 2, 2}, []byte{1, 2, 3}, false},
		{[]byte{1, 2, 3}, []byte{1, 2, 3}, true},
		{[]byte{}, []byte{}, true},
	}
	for _, c := range cases {
		if got := Geq(c.a, c.b); got != c.want {
			t.Errorf("Geq(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

// TestGeqLengthShortcut pins down the length-only shortcut: a longer slice
// always wins, even when its value (read naively byte-by-byte) would compare
// smaller once leading zeros are accounted for. This is intentional, not a
// bug this package is trying to fix.
func TestGeqLengthShortcut(t *testing.T) {
	longButSmallValue := []byte{0x00, 0x01} // == 1
	shortLargeValue := []byte{0xff}         // == 255

	if !Geq(longButSmallValue, shortLargeValue) {
		t.Errorf("Geq(%v, %v) = false, want true (length shortcut)", longButSmallValue, shortLargeValue)
	}
	if Geq(shortLargeValue, longButSmallValue) {
		t.Errorf("Geq(%v, %v) = true, want false (length shortcut)", shortLargeValue, longButSmallValue)
	}
}

func TestGeqReflexive(t *testing.T) {
	vals := [][]byte{{}, {0}, {1, 2, 3}, {0xff, 0xff, 0xff, 0xff}}
	for _, v := range vals {
		if !Geq(v, v) {
			t.Errorf("Geq(%v, %v) = false, want true (reflexivity)", v, v)
		}
	}
}

func TestGeqAntisymmetric(t *testing.T) {
	pairs := [][2][]byte{
		{{1, 0}, {0, 255}},
		{{5}, {5}},
		{{0, 0, 1}, {0, 0, 2}},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		ge, le := Geq(a, b), Geq(b, a)
		equalLen := len(a) == len(b)
		if equalLen {
			bytesEqual := true
			for i := range a {
				if a[i] != b[i] {
					bytesEqual = false
					break
				}
			}
			if bytesEqual && !(ge && le) {
				t.Errorf("Geq(%v,%v) and Geq(%v,%v) should both be true for equal values", a, b, b, a)
			}
			if !bytesEqual && ge == le {
				t.Errorf("Geq(%v,%v)=%v and Geq(%v,%v)=%v must disagree for distinct equal-length values", a, b, ge, b, a, le)
			}
		}
	}
}
