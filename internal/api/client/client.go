// Package client provides typed operations for the marketplace API. Each
// method maps one endpoint to a request/response pair and returns gateway
// errors unchanged.
package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

const defaultMaxPages = 50

// Client is a stateless typed client for the marketplace API. All session
// state lives in the gateway's credential store.
type Client struct {
	gw       *gateway.Gateway
	validate *validator.Validate
	maxPages int
}

// New creates a Client on top of gw.
func New(gw *gateway.Gateway, opts ...Option) *Client {
	c := &Client{
		gw:       gw,
		validate: newValidator(),
		maxPages: defaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithMaxPages caps how many pages the All* helpers follow.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// Gateway returns the underlying gateway.
func (c *Client) Gateway() *gateway.Gateway {
	return c.gw
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return validMoney(fl.Field().String())
	})
	return v
}

// validMoney accepts a positive decimal that is a whole number of cents.
// Trailing zeros past the cents place are allowed.
func validMoney(s string) bool {
	d, ok := domain.ParseMoney(s)
	return ok && d.IsPositive() && d.Equal(d.Round(2))
}

// check validates v and reports failures as an InvalidRequest gateway
// error, before any network call.
func (c *Client) check(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &gateway.Error{
			Kind:    gateway.KindInvalidRequest,
			Message: fmt.Sprintf("%s: failed %q validation", fe.Field(), fe.Tag()),
			Err:     err,
		}
	}
	return &gateway.Error{Kind: gateway.KindInvalidRequest, Message: "invalid input", Err: err}
}

func invalid(msg string) error {
	return &gateway.Error{Kind: gateway.KindInvalidRequest, Message: msg}
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return invalid(fmt.Sprintf("%s must be positive", name))
	}
	return nil
}
