// Package web holds the static pages and files served next to the API.
package web

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

var (
	//go:embed graphiql.html
	graphiql []byte

	//go:embed graphql_req.html
	graphqlReq []byte

	// Canyon is the file offered by the download endpoint.
	//
	//go:embed canyon.svg
	Canyon []byte
)

// GraphiQL serves the in-browser GraphQL IDE, it expects to be mounted on
// the GraphQL endpoint path.
func GraphiQL() http.Handler { return page("graphiql.html", graphiql) }

// GraphQLRequest serves a page querying contacts from a sibling graphql
// endpoint with client-side script.
func GraphQLRequest() http.Handler { return page("graphql_req.html", graphqlReq) }

func page(name string, content []byte) http.Handler {
	modtime := time.Now()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, name, modtime, bytes.NewReader(content))
	})
}
