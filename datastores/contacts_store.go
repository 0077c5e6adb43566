package datastores

import (
	"context"
	"errors"
)

type (
	ContactID = int
	Contact   struct {
		ID        ContactID `json:"id"`
		Firstname string    `json:"first_name"`
		Lastname  string    `json:"last_name"`
		Email     string    `json:"email"`
		Gender    string    `json:"gender"`
	}
)

type ContactsStore interface {
	Create(context.Context, *Contact) (ContactID, error)
	List(context.Context) ([]*Contact, error)
	Dump(context.Context) (map[ContactID]*Contact, error)
	Get(context.Context, ContactID) (*Contact, error)
	Delete(context.Context, ContactID) error
}

var ErrObjectNotFound = errors.New("store: object not found")
