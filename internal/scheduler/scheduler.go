// Package scheduler applies the rain sensor rule to a zone collection.
package scheduler

import (
	"fmt"
	"strings"

	"irrigation_controller/internal/models"
)

// Policy names accepted by ParsePolicy.
const (
	PolicyAll    = "all"
	PolicySingle = "single"
)

// Policy decides the run flags of every zone for a rain reading.
type Policy interface {
	Name() string
	Apply(zones []models.Zone, rainReading float64)
}

// Schedule applies the canonical rule: any rain skips every zone,
// a dry reading turns every zone on. Timing fields are left alone.
func Schedule(zones []models.Zone, rainReading float64) {
	raining := rainReading > 0
	for i := range zones {
		zones[i].Skipped = raining
		zones[i].On = !raining
	}
}

// AllZones is the canonical policy.
type AllZones struct{}

func (AllZones) Name() string { return PolicyAll }

func (AllZones) Apply(zones []models.Zone, rainReading float64) {
	Schedule(zones, rainReading)
}

// SingleZone runs only the zone at Index (0-based). The rain rule applies to
// that zone; every other zone is switched off with Skipped untouched.
// An out-of-range index leaves all zones off.
type SingleZone struct {
	Index int
}

func (p SingleZone) Name() string { return PolicySingle }

func (p SingleZone) Apply(zones []models.Zone, rainReading float64) {
	for i := range zones {
		if i == p.Index {
			Schedule(zones[i:i+1], rainReading)
			continue
		}
		zones[i].On = false
	}
}

// ParsePolicy maps a config value to a Policy. Empty means "all".
func ParsePolicy(name string, activeZone int) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyAll:
		return AllZones{}, nil
	case PolicySingle:
		if activeZone < 0 {
			return nil, fmt.Errorf("single zone policy: active zone %d must be >= 0", activeZone)
		}
		return SingleZone{Index: activeZone}, nil
	default:
		return nil, fmt.Errorf("unknown scheduler policy %q", name)
	}
}

// Counts summarises a scheduled collection.
type Counts struct {
	Active  int `json:"active"`
	Skipped int `json:"skipped"`
}

// Summary counts zones that are on and zones that were skipped.
func Summary(zones []models.Zone) Counts {
	var c Counts
	for _, z := range zones {
		if z.On {
			c.Active++
		}
		if z.Skipped {
			c.Skipped++
		}
	}
	return c
}
