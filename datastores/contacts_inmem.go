package datastores

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// ContactsInmem implements [ContactsStore].
//
// Deleted contacts leave a nil slot behind: their id stays allocated and is
// never handed out again.
type ContactsInmem struct {
	mu    sync.RWMutex
	slots map[ContactID]*Contact
	last  ContactID
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem(cs ...*Contact) *ContactsInmem {
	s := &ContactsInmem{slots: make(map[ContactID]*Contact, len(cs))}
	for _, c := range cs {
		s.slots[c.ID] = c
		s.last = max(s.last, c.ID)
	}
	return s
}

func (s *ContactsInmem) Create(_ context.Context, c *Contact) (ContactID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = max(s.last, len(s.slots)) + 1
	c.ID = s.last
	s.slots[c.ID] = c
	return c.ID, nil
}

func (s *ContactsInmem) List(_ context.Context) ([]*Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contacts := make([]*Contact, 0, len(s.slots))
	for _, id := range slices.Sorted(maps.Keys(s.slots)) {
		if c := s.slots[id]; c != nil {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

func (s *ContactsInmem) Dump(_ context.Context) (map[ContactID]*Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.slots), nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.slots[id]
	if c == nil {
		return nil, ErrObjectNotFound
	}
	return c, nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[id]; ok {
		s.slots[id] = nil
	}
	return nil
}
