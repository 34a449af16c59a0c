package scheduler

import (
	"testing"

	"irrigation_controller/internal/models"
)

func configuredZones() []models.Zone {
	zones := models.NewZones(3)
	zones[0].Configure(0, 480, 30)
	zones[1].Configure(1, 600, 15)
	zones[2].Configure(-1, 720, 45)
	return zones
}

func TestSchedule_RainSkipsEveryZone(t *testing.T) {
	for _, reading := range []float64{0.3, 1.0, 2.0} {
		zones := configuredZones()
		zones[1].On = true
		Schedule(zones, reading)
		for i, z := range zones {
			if !z.Skipped || z.On {
				t.Fatalf("reading %v zone %d: skipped=%v on=%v", reading, i, z.Skipped, z.On)
			}
		}
	}
}

func TestSchedule_DryTurnsEveryZoneOn(t *testing.T) {
	zones := configuredZones()
	zones[2].Skipped = true
	Schedule(zones, 0)
	for i, z := range zones {
		if z.Skipped || !z.On {
			t.Fatalf("zone %d: skipped=%v on=%v", i, z.Skipped, z.On)
		}
	}
}

func TestSchedule_LeavesTimingUntouched(t *testing.T) {
	zones := configuredZones()
	before := make([]models.Zone, len(zones))
	copy(before, zones)

	Schedule(zones, 1.0)
	for i := range zones {
		b, a := before[i], zones[i]
		if a.Sequence != b.Sequence || a.OperationDate != b.OperationDate ||
			a.StartTime != b.StartTime || a.TotalMinutes != b.TotalMinutes || a.EndTime != b.EndTime {
			t.Fatalf("zone %d timing changed: before=%+v after=%+v", i, b, a)
		}
	}
}

func TestSingleZone_OnlyDesignatedZoneRuns(t *testing.T) {
	zones := configuredZones()
	zones[1].Skipped = true
	zones[2].On = true

	SingleZone{Index: 0}.Apply(zones, 0)

	if !zones[0].On || zones[0].Skipped {
		t.Fatalf("designated zone: %+v", zones[0])
	}
	if zones[1].On || !zones[1].Skipped {
		t.Fatalf("zone 1 should be off with skipped untouched: %+v", zones[1])
	}
	if zones[2].On || zones[2].Skipped {
		t.Fatalf("zone 2 should be off with skipped untouched: %+v", zones[2])
	}

	SingleZone{Index: 0}.Apply(zones, 0.5)
	if zones[0].On || !zones[0].Skipped {
		t.Fatalf("designated zone in rain: %+v", zones[0])
	}
}

func TestSingleZone_IndexOutOfRange(t *testing.T) {
	zones := configuredZones()
	SingleZone{Index: 10}.Apply(zones, 0)
	for i, z := range zones {
		if z.On {
			t.Fatalf("zone %d unexpectedly on", i)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		zone    int
		want    string
		wantErr bool
	}{
		{"default", "", 0, PolicyAll, false},
		{"all_mixed_case", " ALL ", 0, PolicyAll, false},
		{"single", "single", 2, PolicySingle, false},
		{"single_negative", "single", -1, "", true},
		{"unknown", "weekly", 0, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePolicy(tc.in, tc.zone)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tc.want {
				t.Fatalf("policy=%s, want %s", p.Name(), tc.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	zones := configuredZones()
	Schedule(zones, 0)
	if c := Summary(zones); c.Active != 3 || c.Skipped != 0 {
		t.Fatalf("dry summary: %+v", c)
	}
	Schedule(zones, 1)
	if c := Summary(zones); c.Active != 0 || c.Skipped != 3 {
		t.Fatalf("rain summary: %+v", c)
	}
}
