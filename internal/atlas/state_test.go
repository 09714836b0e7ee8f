package atlas

import (
	"reflect"
	"sync"
	"testing"
)

func TestStatePinUnpin(t *testing.T) {
	state := NewState("rainbow")

	if !state.Pin("UTC+02:00") {
		t.Error("first pin should report a change")
	}
	if state.Pin("UTC+02:00") {
		t.Error("repeated pin should report no change")
	}
	if !state.IsPinned("UTC+02:00") {
		t.Error("band should be pinned")
	}

	if !state.Unpin("UTC+02:00") {
		t.Error("unpin of pinned band should report a change")
	}
	if state.Unpin("UTC+02:00") {
		t.Error("unpin of unpinned band should report no change")
	}
}

func TestStatePinsSorted(t *testing.T) {
	state := NewState("rainbow")
	state.Pin("UTC+05:30")
	state.Pin("UTC-09:30")
	state.Pin("UTC+00:00")

	want := []string{"UTC+00:00", "UTC+05:30", "UTC-09:30"}
	if got := state.Pins(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pins() = %v, want %v", got, want)
	}
}

func TestStateHighlightAndScheme(t *testing.T) {
	state := NewState("rainbow")

	if got := state.Scheme(); got != "rainbow" {
		t.Errorf("initial scheme = %q", got)
	}
	state.SetScheme("meridian")
	if got := state.Scheme(); got != "meridian" {
		t.Errorf("scheme = %q, want meridian", got)
	}

	if got := state.Highlight(); got != "" {
		t.Errorf("initial highlight = %q, want empty", got)
	}
	state.SetHighlight("UTC+09:00")
	if got := state.Highlight(); got != "UTC+09:00" {
		t.Errorf("highlight = %q", got)
	}
	state.SetHighlight("")
	if got := state.Highlight(); got != "" {
		t.Errorf("highlight = %q after clear", got)
	}
}

func TestStateConcurrentAccess(t *testing.T) {
	state := NewState("rainbow")
	bands := []string{"UTC+00:00", "UTC+01:00", "UTC+02:00", "UTC+03:00"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				band := bands[(n+j)%len(bands)]
				state.Pin(band)
				state.IsPinned(band)
				state.SetHighlight(band)
				state.Pins()
				state.Unpin(band)
			}
		}(i)
	}
	wg.Wait()
}
