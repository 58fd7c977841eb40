package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged     <-chan StateChange
	TrackChanged     <-chan TrackChange
	PositionChanged  <-chan PositionChange
	TransportChanged <-chan TransportChange
	Error            <-chan ErrorEvent
	Done             <-chan struct{}

	// Internal write channels
	stateCh     chan StateChange
	trackCh     chan TrackChange
	positionCh  chan PositionChange
	transportCh chan TransportChange
	errorCh     chan ErrorEvent
	doneCh      chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:     make(chan StateChange, eventBufferSize),
		trackCh:     make(chan TrackChange, eventBufferSize),
		positionCh:  make(chan PositionChange, eventBufferSize),
		transportCh: make(chan TransportChange, eventBufferSize),
		errorCh:     make(chan ErrorEvent, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.TransportChanged = s.transportCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
}

// sendPosition sends a position change event (non-blocking).
func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

// sendTransport sends a transport change event (non-blocking).
func (s *Subscription) sendTransport(e TransportChange) {
	select {
	case s.transportCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
