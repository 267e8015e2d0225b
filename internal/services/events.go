package services

// EventPublisher receives project change notifications. realtime.Hub is the
// production implementation.
type EventPublisher interface {
	Publish(projectID uint, eventType, message string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uint, string, string) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// Publishers fans each event out to every publisher in order.
type Publishers []EventPublisher

func (ps Publishers) Publish(projectID uint, eventType, message string) {
	for _, p := range ps {
		p.Publish(projectID, eventType, message)
	}
}
