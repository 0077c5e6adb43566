package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oaiiae/huma-graphql-example/datastores"
)

type StoreOptions struct {
	ContactsFile string `doc:"load contacts from a JSON file instead of the built-in dataset" default:""`
}

// NewContacts returns the contacts store seeded from options.ContactsFile,
// or from the built-in dataset when it is empty.
func NewContacts(options *StoreOptions, logger *slog.Logger) (*datastores.ContactsInmem, error) {
	var (
		cs  []*datastores.Contact
		err error
	)
	if options.ContactsFile == "" {
		cs, err = datastores.SeedContacts()
	} else {
		cs, err = datastores.LoadContacts(options.ContactsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("seed contacts: %w", err)
	}
	logger.Info("contacts loaded", "count", len(cs), "file", options.ContactsFile)
	return datastores.NewContactsInmem(cs...), nil
}

// NewDoohickeys returns the doohickeys store selected by options and a
// function releasing it. Failures to reach MongoDB are logged by the store
// and do not prevent startup.
func NewDoohickeys(ctx context.Context, options *datastores.MongoOptions, logger *slog.Logger) (datastores.DoohickeysStore, func(context.Context) error) {
	if options.MongoURI == "" {
		logger.Info("doohickeys kept in memory")
		return datastores.NewDoohickeysInmem(), func(context.Context) error { return nil }
	}

	store := datastores.NewDoohickeysMongo(ctx, options, logger.With("store", "doohickeys"))
	if s, ok := store.(*datastores.DoohickeysMongo); ok {
		return s, s.Disconnect
	}
	return store, func(context.Context) error { return nil }
}
