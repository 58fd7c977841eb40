package app

import (
	"context"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/state"
)

// TransportSaver stores transport state. Saves are expected to be cheap
// and debounced by the implementation.
type TransportSaver interface {
	SaveTransport(t playback.TransportState)
}

var _ TransportSaver = (state.Interface)(nil)

// persistTransport saves every transport change until ctx is done or the
// engine closes.
func persistTransport(ctx context.Context, sub *playback.Subscription, st TransportSaver) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TransportChanged:
			st.SaveTransport(e.Transport)
		case <-sub.StateChanged:
		case <-sub.TrackChanged:
		case <-sub.PositionChanged:
		case <-sub.Error:
		}
	}
}
