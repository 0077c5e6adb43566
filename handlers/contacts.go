package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-graphql-example/datastores"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID ds.ContactID `json:"id" readOnly:"true" example:"12"`

	Firstname string `json:"first_name" example:"john"`
	Lastname  string `json:"last_name"  example:"smith"`
	Email     string `json:"email"      example:"jsmith@example.com" format:"email"`
	Gender    string `json:"gender"     example:"Male"`
}

func contactModel(c *ds.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID,
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		Email:     c.Email,
		Gender:    c.Gender,
	}
}

func (h *Contacts) RegisterDump(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.dump, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
		opDoc("Dump the dataset", "Every contact keyed by id, deleted contacts are null."),
	)
}

type ContactsDumpOutput struct {
	Body map[string]*ContactModel
}

func (h *Contacts) dump(ctx context.Context, _ *struct{}) (*ContactsDumpOutput, error) {
	slots, err := h.Store.Dump(ctx)
	if err != nil {
		return nil, err
	}

	body := make(map[string]*ContactModel, len(slots))
	for id, contact := range slots {
		var model *ContactModel
		if contact != nil {
			m := contactModel(contact)
			model = &m
		}
		body[strconv.Itoa(id)] = model
	}

	return &ContactsDumpOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/data/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	switch {
	case err == nil:
		return &ContactsGetOutput{Body: contactModel(contact)}, nil

	case errors.Is(err, ds.ErrObjectNotFound):
		return nil, huma.Error404NotFound("id not found", err)

	default:
		return nil, err
	}
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/newItem",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opErrors(http.StatusUnprocessableEntity, http.StatusInternalServerError),
		opStatus(http.StatusCreated),
	)
}

// NewItemModel is the body accepted to create a contact.
type NewItemModel struct {
	Firstname string `json:"first_name"       example:"john"               minLength:"1"`
	Lastname  string `json:"last_name"        example:"smith"              minLength:"1"`
	Email     string `json:"email"            example:"jsmith@example.com" format:"email"`
	Gender    string `json:"gender,omitempty" example:"Male"`
}

type ContactsCreateOutput struct {
	Location string `header:"Location"`
	Body     ContactModel
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body NewItemModel
}) (*ContactsCreateOutput, error) {
	contact := &ds.Contact{
		Firstname: input.Body.Firstname,
		Lastname:  input.Body.Lastname,
		Email:     input.Body.Email,
		Gender:    input.Body.Gender,
	}
	id, err := h.Store.Create(ctx, contact)
	if err != nil {
		return nil, err
	}

	return &ContactsCreateOutput{
		Location: "data/" + strconv.Itoa(id),
		Body:     contactModel(contact),
	}, nil
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/data/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, h.Store.Delete(ctx, input.ID)
}
