package datastores

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// DoohickeysInmem implements [DoohickeysStore] without any external
// collection. Ids are text encoded [UUID] version 7 values, so listing in
// id order is listing in creation order.
type DoohickeysInmem struct {
	mu   sync.Mutex
	docs map[DoohickeyID]Doohickey
}

var _ DoohickeysStore = (*DoohickeysInmem)(nil)

func NewDoohickeysInmem() *DoohickeysInmem {
	return &DoohickeysInmem{docs: make(map[DoohickeyID]Doohickey)}
}

func (s *DoohickeysInmem) Create(_ context.Context, d *Doohickey) (DoohickeyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
retry:
	d.ID = newUUID().String()
	if _, loaded := s.docs[d.ID]; loaded {
		goto retry
	}
	s.docs[d.ID] = *d
	return d.ID, nil
}

func (s *DoohickeysInmem) List(_ context.Context) ([]*Doohickey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := make([]*Doohickey, 0, len(s.docs))
	for _, d := range s.docs {
		ds = append(ds, &d)
	}
	slices.SortFunc(ds, func(a, b *Doohickey) int { return compareUUIDText(a.ID, b.ID) })
	return ds, nil
}

func (s *DoohickeysInmem) Delete(_ context.Context, id DoohickeyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *DoohickeysInmem) Ping(context.Context) error { return nil }

// compareUUIDText orders ids by their decoded bytes, base64 text does not
// sort like the bytes it encodes.
func compareUUIDText(a, b string) int {
	var ua, ub UUID
	if ua.UnmarshalText([]byte(a)) != nil || ub.UnmarshalText([]byte(b)) != nil {
		return strings.Compare(a, b)
	}
	return slices.Compare(ua[:], ub[:])
}
