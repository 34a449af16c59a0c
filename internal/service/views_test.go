package service

import (
	"testing"
	"time"

	"irrigation_controller/internal/models"
)

func TestClockLabel(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		480:  "08:00",
		615:  "10:15",
		1439: "23:59",
		1440: "00:00",
		1455: "00:15",
		-30:  "23:30",
	}
	for in, want := range cases {
		if got := clockLabel(in); got != want {
			t.Errorf("clockLabel(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestZoneView_OperationDay(t *testing.T) {
	clock := time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC)
	z := models.Zone{Sequence: 1}
	z.Configure(1, 480, 30)

	v := zoneView(z, clock)
	if v.OperationDay != "2024-02-29" {
		t.Fatalf("OperationDay = %s, want leap day", v.OperationDay)
	}

	z.Configure(-1, 480, 30)
	if v := zoneView(z, clock); v.OperationDay != "2024-02-27" {
		t.Fatalf("OperationDay = %s, want 2024-02-27", v.OperationDay)
	}
}
