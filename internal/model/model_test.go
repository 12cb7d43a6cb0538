package model

import (
	"reflect"
	"testing"
)

func TestValidSessionType(t *testing.T) {
	for _, valid := range []string{SessionRegular, SessionExtraordinary, SessionCommittee} {
		if !ValidSessionType(valid) {
			t.Errorf("ValidSessionType(%q) = false", valid)
		}
	}
	for _, invalid := range []string{"plenary", "REGULAR", "", "regular "} {
		if ValidSessionType(invalid) {
			t.Errorf("ValidSessionType(%q) = true", invalid)
		}
	}
}

func TestValidTag(t *testing.T) {
	if !ValidTag("kosodate") {
		t.Error("kosodate belongs to the vocabulary")
	}
	if ValidTag("made_up_tag") || ValidTag("") {
		t.Error("unknown ids must be rejected")
	}
}

func TestTagsNullHandling(t *testing.T) {
	// Empty tag sets are stored as NULL, not "[]".
	v, err := Tags(nil).Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != nil {
		t.Errorf("empty tags Value = %v, want nil", v)
	}

	var tags Tags
	if err := tags.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if tags != nil {
		t.Errorf("Scan(nil) = %v, want nil", tags)
	}
}

func TestTagsRoundTrip(t *testing.T) {
	in := Tags{"suidou", "yosan"}

	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out Tags
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
