package mem

import "testing"

func TestPageAligned(t *testing.T) {
	specs := []struct {
		size    Size
		aligned bool
	}{
		{0, true},
		{1, false},
		{PageSize, true},
		{PageSize + 1, false},
		{8 * Kb, true},
		{128 * Kb, true},
	}

	for specIndex, spec := range specs {
		if got := spec.size.PageAligned(); got != spec.aligned {
			t.Errorf("[spec %d] expected PageAligned() to return %t; got %t", specIndex, spec.aligned, got)
		}
	}

	if !PageAligned(0x80400000) || PageAligned(0x80400010) {
		t.Error("PageAligned misclassified an address")
	}
}
