package core

import "testing"

func TestProfile(t *testing.T) {
	table := rawTable(t, []string{"feed", "note"},
		[]string{"10", "ok"},
		[]string{"", ""},
		[]string{"30", "fine"},
		[]string{"20", ""},
	)
	table = CleanNumeric(table, "feed")

	profiles := Profile(table)

	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	feed := profiles[0]
	if feed.Type != "float" || feed.Present != 3 || feed.Missing != 1 {
		t.Errorf("feed profile = %+v", feed)
	}
	if feed.Mean == nil || *feed.Mean != 20 {
		t.Errorf("mean = %v, want 20", feed.Mean)
	}
	if feed.Min == nil || *feed.Min != 10 || feed.Max == nil || *feed.Max != 30 {
		t.Errorf("min/max = %v/%v", feed.Min, feed.Max)
	}
	if feed.Median == nil || *feed.Median != 20 {
		t.Errorf("median = %v, want 20", feed.Median)
	}

	note := profiles[1]
	if note.Type != "raw" || note.Present != 2 || note.Missing != 2 {
		t.Errorf("note profile = %+v", note)
	}
	if note.Mean != nil {
		t.Error("expected no statistics for a text column")
	}
}
