package shotship

import "sync"

// Registry holds at most one Sender. The first successful Get or GetConfig
// call creates it; later calls return that instance and ignore their
// arguments. A failed construction is not remembered.
//
// The zero value is ready to use.
type Registry struct {
	mu     sync.Mutex
	sender *Sender
}

// Get returns the registry's Sender, creating it with DefaultConfig and the
// given capacity on first use.
func (r *Registry) Get(capacity int, opts ...Option) (*Sender, error) {
	cfg := DefaultConfig()
	cfg.Capacity = capacity
	return r.GetConfig(cfg, opts...)
}

// GetConfig is like Get but takes a full Config.
func (r *Registry) GetConfig(cfg Config, opts ...Option) (*Sender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sender != nil {
		return r.sender, nil
	}

	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	r.sender = s
	return s, nil
}

// Current returns the Sender if one has been created, or nil.
func (r *Registry) Current() *Sender {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sender
}
