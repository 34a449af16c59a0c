package service

import (
	"context"

	ic "irrigation_controller"
)

type MonitoringService struct {
	zones *ZoneService
}

func NewMonitoringService(zones *ZoneService) *MonitoringService {
	return &MonitoringService{zones: zones}
}

// GetState returns the controller snapshot together with the last schedule run.
func (s *MonitoringService) GetState(ctx context.Context) (ic.ControllerState, error) {
	st := s.zones.snapshot()
	state := ic.ControllerState{
		NumZones:    st.NumZones,
		RainLimit:   st.RainLimit,
		RainReading: st.RainReading,
		Clock:       st.Clock,
		Policy:      st.Policy,
		Zones:       zoneViews(st.Zones, st.Clock),
	}

	last, err := s.zones.LatestRun(ctx)
	if err != nil {
		return ic.ControllerState{}, err
	}
	if last.RunID != "" {
		state.LastRun = &last
	}
	return state, nil
}
