// Package multi provides a formatter that fans out to multiple formatters.
// Every formatter renders every event into the same writer; errors are aggregated.
package multi

import (
	"errors"
	"io"

	"github.com/strongdm/relevel/pkg/tracing"
)

// multiFormatter fans out to multiple formatters.
type multiFormatter struct {
	formatters []tracing.Formatter
}

// New creates a formatter that renders each event with every formatter, in
// order. Errors are aggregated via errors.Join.
func New(formatters ...tracing.Formatter) tracing.Formatter {
	return &multiFormatter{
		formatters: formatters,
	}
}

// FormatEvent calls every formatter, collecting any errors.
// All formatters are called even if some return errors.
func (m *multiFormatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	var errs []error
	for _, f := range m.formatters {
		if err := f.FormatEvent(ctx, w, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
