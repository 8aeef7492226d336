package links

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joestump/linkfolio/internal/apiclient"
)

var (
	// ErrTitleEmpty is returned when a draft has no title.
	ErrTitleEmpty = errors.New("link title must not be empty")

	// ErrURLInvalid is returned when a draft's URL cannot be parsed as an absolute URL.
	ErrURLInvalid = errors.New("link URL must be an absolute URL")

	// ErrURLScheme is returned for URLs that a browser would not open as a
	// link target, e.g. javascript: or file:.
	ErrURLScheme = errors.New("link URL must use http or https")

	validate = validator.New()
)

// Draft is a link that has not been created yet. It never carries an id;
// the server assigns one on creation.
type Draft struct {
	Title string `validate:"required"`
	URL   string `validate:"required,url"`
}

// Validate checks d before it is sent to the server.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleEmpty
	}
	if err := validate.Struct(d); err != nil {
		return ErrURLInvalid
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return ErrURLInvalid
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrURLScheme
	}
}

func (d Draft) request() apiclient.LinkRequest {
	return apiclient.LinkRequest{Title: strings.TrimSpace(d.Title), URL: d.URL}
}
