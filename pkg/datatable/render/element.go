package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Attrs is an ordered attribute list for Element.
type Attrs = templ.OrderedAttributes

// Attr builds one attribute. A true bool renders the bare name, false omits it.
func Attr(key string, value any) templ.KeyValue[string, any] {
	return attr(key, value)
}

// Element renders <tag attrs>children</tag>. Nil children are skipped.
func Element(tag string, attrs Attrs, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.open(tag, attrs)
		for _, c := range children {
			h.component(c)
		}
		h.close(tag)
		return h.err
	})
}

// Void renders a self-contained element such as <input> or <meta>.
func Void(tag string, attrs Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.open(tag, attrs)
		return h.err
	})
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.text(s)
		return h.err
	})
}

// Post builds a datastar action posting to path.
func Post(path string) string {
	return post(path)
}
