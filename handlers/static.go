package handlers

import (
	"context"
	"mime"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Redirect answers with a redirection to a fixed location.
type Redirect struct {
	Path     string
	Location string
}

func (h *Redirect) RegisterAPI(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, h.Path, h.handle, opRedirect())
}

type RedirectOutput struct {
	Status   int
	Location string `header:"Location"`
}

func (h *Redirect) handle(_ context.Context, _ *struct{}) (*RedirectOutput, error) {
	return &RedirectOutput{Status: http.StatusFound, Location: h.Location}, nil
}

func opRedirect() func(*huma.Operation) {
	return func(o *huma.Operation) {
		o.DefaultStatus = http.StatusFound
		o.Responses = map[string]*huma.Response{
			"302": {Description: "Redirection", Headers: map[string]*huma.Param{
				"Location": {Schema: &huma.Schema{Type: huma.TypeString, Format: "uri"}},
			}},
		}
	}
}

// Download serves an in-memory file as an attachment.
type Download struct {
	Path        string
	Filename    string
	ContentType string
	Content     []byte
}

func (h *Download) RegisterAPI(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, h.Path, h.handle, func(o *huma.Operation) {
		o.Responses = map[string]*huma.Response{
			"200": {Description: "File content", Content: map[string]*huma.MediaType{h.ContentType: {}}},
		}
	})
}

type DownloadOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *Download) handle(_ context.Context, _ *struct{}) (*DownloadOutput, error) {
	return &DownloadOutput{
		ContentType:        h.ContentType,
		ContentDisposition: mime.FormatMediaType("attachment", map[string]string{"filename": h.Filename}),
		Body:               h.Content,
	}, nil
}
