// Package schema builds the executable GraphQL schema for the Book API:
//
//	scalar DateTime
//	type Book { id: ID! name: String genre: String author: String createdAt: DateTime }
//	input BookInput { name: String genre: String author: String createdAt: DateTime }
//	type Query { getBooks: [Book!]! }
//	type Mutation { createBook(book: BookInput!): Book! }
package schema

import (
	"fmt"
	"log/slog"
	"strconv"

	"bookgraph/internal/metrics"
	"bookgraph/internal/microservices/graphql-api/middleware"
	"bookgraph/internal/microservices/graphql-api/models"
	"bookgraph/internal/microservices/graphql-api/service"
	"bookgraph/internal/scalar"

	"github.com/graphql-go/graphql"
)

const WriteScope = "write:book"

type Options struct {
	Coercer scalar.Coercer
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	// RequireAuth gates createBook behind WriteScope.
	RequireAuth bool
}

type resolver struct {
	svc         service.BookService
	metrics     *metrics.Metrics
	requireAuth bool
}

func New(svc service.BookService, opts Options) (graphql.Schema, error) {
	if opts.Coercer == nil {
		opts.Coercer = scalar.NewDateTime(nil)
	}
	r := &resolver{svc: svc, metrics: opts.Metrics, requireAuth: opts.RequireAuth}

	dateTime := NewDateTimeScalar(opts.Coercer, opts.Metrics, opts.Logger)

	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: bookField(func(b *models.Book) interface{} {
					return strconv.FormatInt(b.ID, 10)
				}),
			},
			"name":   &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *models.Book) interface{} { return b.Name })},
			"genre":  &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *models.Book) interface{} { return b.Genre })},
			"author": &graphql.Field{Type: graphql.String, Resolve: bookField(func(b *models.Book) interface{} { return b.Author })},
			"createdAt": &graphql.Field{
				Type: dateTime,
				Resolve: bookField(func(b *models.Book) interface{} {
					if b.CreatedAt == nil {
						return nil
					}
					return *b.CreatedAt
				}),
			},
		},
	})

	bookInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"genre":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"author":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"createdAt": &graphql.InputObjectFieldConfig{Type: dateTime},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getBooks": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType))),
				Resolve: r.getBooks,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createBook": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Args: graphql.FieldConfigArgument{
					"book": &graphql.ArgumentConfig{Type: graphql.NewNonNull(bookInput)},
				},
				Resolve: r.createBook,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *resolver) getBooks(p graphql.ResolveParams) (interface{}, error) {
	books, err := r.svc.GetBooks(p.Context)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Book, len(books))
	for i := range books {
		out[i] = &books[i]
	}
	return out, nil
}

func (r *resolver) createBook(p graphql.ResolveParams) (interface{}, error) {
	if r.requireAuth {
		if err := middleware.RequireScopes(p.Context, WriteScope); err != nil {
			return nil, err
		}
	}

	book, err := bookFromInput(p.Args["book"])
	if err != nil {
		return nil, err
	}
	if err := r.svc.CreateBook(p.Context, book); err != nil {
		return nil, err
	}
	r.metrics.BookCreated()
	return book, nil
}

// bookFromInput maps a coerced BookInput. createdAt is already epoch millis.
func bookFromInput(raw interface{}) (*models.Book, error) {
	in, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("book: expected input object, got %T", raw)
	}
	b := &models.Book{}
	if v, ok := in["name"].(string); ok {
		b.Name = v
	}
	if v, ok := in["genre"].(string); ok {
		b.Genre = v
	}
	if v, ok := in["author"].(string); ok {
		b.Author = v
	}
	if v, ok := in["createdAt"].(int64); ok {
		b.CreatedAt = &v
	}
	return b, nil
}

func bookField(get func(b *models.Book) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch b := p.Source.(type) {
		case *models.Book:
			if b != nil {
				return get(b), nil
			}
		case models.Book:
			return get(&b), nil
		}
		return nil, fmt.Errorf("unexpected Book source %T", p.Source)
	}
}
