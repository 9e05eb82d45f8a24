// Package inflight tracks which operations are running so that the same operation isn't started twice.
package inflight

type acquireRequest[TID comparable] struct {
	ID    TID
	Reply chan bool
}

// Guard admits one holder per ID at a time.
//
// A single goroutine started with Start owns the set of running IDs. TryAcquire and Release talk to it over
// channels, so the Guard is safe for concurrent use. Overlapping requests for the same ID are rejected instead of
// queued, which lets HTTP handlers answer them with a conflict right away.
type Guard[TID comparable] struct {
	stopChannel    chan struct{}
	acquireChannel chan acquireRequest[TID]
	releaseChannel chan TID
}

// NewGuard creates a new Guard. Call Start in a goroutine before use and Stop when done.
func NewGuard[TID comparable]() *Guard[TID] {
	return &Guard[TID]{
		stopChannel:    make(chan struct{}),
		acquireChannel: make(chan acquireRequest[TID]),
		releaseChannel: make(chan TID),
	}
}

// Start handles acquire and release events. It blocks until Stop is called.
func (g *Guard[TID]) Start() {
	running := map[TID]struct{}{}
	for {
		select {
		case <-g.stopChannel:
			return

		case req := <-g.acquireChannel:
			if _, busy := running[req.ID]; busy {
				req.Reply <- false
				break
			}
			running[req.ID] = struct{}{}
			req.Reply <- true

		case id := <-g.releaseChannel:
			delete(running, id)
		}
	}
}

// Stop the goroutine that handles the guard. Later TryAcquire calls fail.
func (g *Guard[TID]) Stop() {
	close(g.stopChannel)
}

// TryAcquire marks id as running. It returns false when id is already running or the guard is stopped.
func (g *Guard[TID]) TryAcquire(id TID) bool {
	reply := make(chan bool, 1)
	select {
	case g.acquireChannel <- acquireRequest[TID]{ID: id, Reply: reply}:
		return <-reply
	case <-g.stopChannel:
		return false
	}
}

// Release marks id as finished so that it can be acquired again.
func (g *Guard[TID]) Release(id TID) {
	select {
	case g.releaseChannel <- id:
	case <-g.stopChannel:
	}
}
