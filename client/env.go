package client

import "sync"

// Environment is the browser-location boundary: the location at startup and
// a stream of navigation notifications.
type Environment interface {
	Location() string
	Locations() <-chan string
}

// LocationFeed is an Environment fed by hand. Navigate records the new
// location and notifies the subscriber.
type LocationFeed struct {
	mu      sync.Mutex
	current string
	changes chan string
}

func NewLocationFeed(initial string) *LocationFeed {
	return &LocationFeed{
		current: initial,
		changes: make(chan string, 16),
	}
}

func (f *LocationFeed) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *LocationFeed) Locations() <-chan string {
	return f.changes
}

func (f *LocationFeed) Navigate(location string) {
	f.mu.Lock()
	f.current = location
	f.mu.Unlock()
	f.changes <- location
}
