package usecase

import (
	"context"
	"time"
)

// Page is the live document of the browser tab. Lookups report an absent
// element as a nil Element with a nil error; errors are reserved for the
// browser connection itself.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	// WaitFor polls for the first match of a CSS selector until timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is one node of the document.
type Element interface {
	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Preceding evaluates an XPath expression relative to the element and
	// returns the first node it yields.
	Preceding(ctx context.Context, xpath string) (Element, error)
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	// Value is the live value property of form controls.
	Value(ctx context.Context) (string, error)
	Checked(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Submit(ctx context.Context) error
}

// firstOf returns the first element found by the lookups, in order.
func firstOf(ctx context.Context, lookups ...func(context.Context) (Element, error)) (Element, error) {
	for _, l := range lookups {
		el, err := l(ctx)
		if err != nil {
			return nil, err
		}
		if el != nil {
			return el, nil
		}
	}
	return nil, nil
}

// sleep pauses for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
