package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type Greeting struct{}

func (h *Greeting) RegisterAPI(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/greeting", h.handle, func(o *huma.Operation) {
		o.Responses = map[string]*huma.Response{
			"200": {Description: "Greeting page", Content: map[string]*huma.MediaType{"text/html": {}}},
		}
	})
}

// GreetingOutput represents the greeting operation response.
type GreetingOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

const greetingPage = `<html>
    <head>
        <title>Express Basic App</title>
    </head>
    <body>
        <h1>My Simple App</h1>
        <p>Welcome to my simple app</p>
    </body>
</html>
`

func (h *Greeting) handle(_ context.Context, _ *struct{}) (*GreetingOutput, error) {
	resp := &GreetingOutput{ContentType: "text/html; charset=utf-8"}
	resp.Body = []byte(greetingPage)
	return resp, nil
}
