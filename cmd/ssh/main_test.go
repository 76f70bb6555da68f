package main

import "testing"

func TestSkinFromCommand(t *testing.T) {
	tests := []struct {
		args   []string
		want   int
		wantOK bool
	}{
		{nil, 0, false},
		{[]string{"2"}, 2, true},
		{[]string{"skin", "1"}, 1, true},
		{[]string{"SKIN", "0"}, 0, true},
		{[]string{"skin"}, 0, false},
		{[]string{"3"}, 0, false},
		{[]string{"-1"}, 0, false},
		{[]string{"play"}, 0, false},
	}
	for _, tt := range tests {
		got, ok := skinFromCommand(tt.args, 3)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("skinFromCommand(%q) = %d, %v; want %d, %v", tt.args, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSizeTrackerUpdates(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)

	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize() = %d, %d, %v; want 120, 40, nil", w, h, err)
	}
}
