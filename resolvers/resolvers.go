// Package resolvers serves the GraphQL schema over the contacts and
// doohickeys stores.
package resolvers

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	ds "github.com/oaiiae/huma-graphql-example/datastores"
)

//go:embed schema.graphql
var schemaSDL string

// maxDepth bounds query nesting, the schema itself is two levels deep.
const maxDepth = 8

// Root resolves the Query and Mutation fields.
type Root struct {
	ContactsStore   ds.ContactsStore
	DoohickeysStore ds.DoohickeysStore
}

// NewSchema parses the schema and binds it to r. It panics if r does not
// match the schema.
func NewSchema(r *Root, logger *slog.Logger) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{logger}),
	)
}

// NewHandler returns the HTTP endpoint executing POSTed queries.
func NewHandler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}

// panicLogger reports resolver panics, which graphql-go turns into errors.
type panicLogger struct{ *slog.Logger }

func (l panicLogger) LogPanic(ctx context.Context, value any) {
	l.ErrorContext(ctx, "graphql resolver panicked", slog.Any("recovered", value))
}

func (*Root) Hello() string { return "Hello World" }

func (r *Root) Contacts(ctx context.Context) ([]*contactResolver, error) {
	contacts, err := r.ContactsStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	rs := make([]*contactResolver, 0, len(contacts))
	for _, c := range contacts {
		rs = append(rs, &contactResolver{c})
	}
	return rs, nil
}

func (r *Root) Doohickeys(ctx context.Context) ([]*doohickeyResolver, error) {
	doohickeys, err := r.DoohickeysStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doohickeys: %w", err)
	}
	rs := make([]*doohickeyResolver, 0, len(doohickeys))
	for _, d := range doohickeys {
		rs = append(rs, &doohickeyResolver{d})
	}
	return rs, nil
}

type doohickeyInput struct {
	Name        string
	Description string
}

func (r *Root) CreateDoohickey(ctx context.Context, args struct{ Input doohickeyInput }) (*doohickeyResolver, error) {
	d := &ds.Doohickey{Name: args.Input.Name, Description: args.Input.Description}
	if _, err := r.DoohickeysStore.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doohickey: %w", err)
	}
	return &doohickeyResolver{d}, nil
}

type doohickeyIDInput struct {
	ID graphql.ID
}

func (r *Root) DeleteDoohickey(ctx context.Context, args struct{ Input doohickeyIDInput }) (graphql.ID, error) {
	if err := r.DoohickeysStore.Delete(ctx, string(args.Input.ID)); err != nil {
		return "", fmt.Errorf("delete doohickey: %w", err)
	}
	return args.Input.ID, nil
}

type contactResolver struct{ c *ds.Contact }

func (r *contactResolver) ID() graphql.ID {
	return graphql.ID(strconv.Itoa(r.c.ID))
}

func (r *contactResolver) FirstName() string {
	return r.c.Firstname
}

func (r *contactResolver) LastName() string {
	return r.c.Lastname
}

func (r *contactResolver) Email() string {
	return r.c.Email
}

func (r *contactResolver) Gender() string {
	return r.c.Gender
}

type doohickeyResolver struct{ d *ds.Doohickey }

func (r *doohickeyResolver) ID() graphql.ID {
	return graphql.ID(r.d.ID)
}

func (r *doohickeyResolver) Name() string {
	return r.d.Name
}

func (r *doohickeyResolver) Description() string {
	return r.d.Description
}
