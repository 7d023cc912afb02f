package timezones

import "testing"

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestAll_ZonesComplete(t *testing.T) {
	zones, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(zones) == 0 {
		t.Fatal("All() returned an empty zone list")
	}

	for _, z := range zones {
		if z.ID == "" {
			t.Error("zone has empty ID")
		}
		if z.Label == "" {
			t.Errorf("zone %q has empty Label", z.ID)
		}
	}
}

func TestLabel(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := Label("America/New_York"); got == "" {
		t.Error(`Label("America/New_York") returned empty string`)
	}
	// Unknown IDs fall back to the ID so property rows never render blank.
	if got := Label("Invalid/Timezone"); got != "Invalid/Timezone" {
		t.Errorf("Label(unknown) = %q, want the ID back", got)
	}
	if got := Label(""); got != "" {
		t.Errorf("Label(%q) = %q, want %q", "", got, "")
	}
}

func TestValid(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		id   string
		want bool
	}{
		{"America/New_York", true},
		{"UTC", true},
		{"Europe/London", true},
		{"Invalid/Timezone", false},
		{"", false},
		{"Not_A_Zone", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Valid(tt.id); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestGroups_SortedForPicker(t *testing.T) {
	groups, err := Groups()
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) == 0 {
		t.Fatal("Groups() returned no groups")
	}

	for i, g := range groups {
		if g.Region == "" {
			t.Error("group has empty Region")
		}
		if len(g.Zones) == 0 {
			t.Errorf("group %q has no zones", g.Region)
		}
		if i > 0 && g.Region < groups[i-1].Region {
			t.Errorf("groups not sorted: %q comes after %q", g.Region, groups[i-1].Region)
		}
		for j := 1; j < len(g.Zones); j++ {
			if g.Zones[j].Label < g.Zones[j-1].Label {
				t.Errorf("zones in group %q not sorted: %q comes after %q",
					g.Region, g.Zones[j].Label, g.Zones[j-1].Label)
			}
		}
	}
}
