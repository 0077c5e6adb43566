package datastores

import (
	"context"
	"errors"
)

type (
	DoohickeyID = string
	Doohickey   struct {
		ID          DoohickeyID
		Name        string
		Description string
	}
)

// DoohickeysStore persists doohickeys. Implementations do not cache:
// List always reflects the backing collection.
type DoohickeysStore interface {
	Create(context.Context, *Doohickey) (DoohickeyID, error)
	List(context.Context) ([]*Doohickey, error)
	// Delete succeeds whether or not a doohickey matched id.
	Delete(context.Context, DoohickeyID) error
	Ping(context.Context) error
}

var ErrUnavailable = errors.New("store: backend unavailable")

// DoohickeysUnavailable implements [DoohickeysStore] for a backend that
// could not be set up. Every call fails with an error wrapping
// [ErrUnavailable] and Cause.
type DoohickeysUnavailable struct {
	Cause error
}

var _ DoohickeysStore = DoohickeysUnavailable{}

func (s DoohickeysUnavailable) err() error { return errors.Join(ErrUnavailable, s.Cause) }

func (s DoohickeysUnavailable) Create(context.Context, *Doohickey) (DoohickeyID, error) {
	return "", s.err()
}

func (s DoohickeysUnavailable) List(context.Context) ([]*Doohickey, error) { return nil, s.err() }

func (s DoohickeysUnavailable) Delete(context.Context, DoohickeyID) error { return s.err() }

func (s DoohickeysUnavailable) Ping(context.Context) error { return s.err() }
