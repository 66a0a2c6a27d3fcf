package opendata

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Console prints human-readable progress. Nothing it writes is meant to be
// parsed.
type Console struct {
	w io.Writer
	p *message.Printer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w, p: message.NewPrinter(language.English)}
}

// Printf formats numbers with thousands separators.
func (c *Console) Printf(format string, args ...any) {
	c.p.Fprintf(c.w, format, args...)
}

func (c *Console) Sprintf(format string, args ...any) string {
	return c.p.Sprintf(format, args...)
}

func (c *Console) Println(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(c.w, l)
	}
}

// Bar is a progress bar keyed to a record count.
type Bar struct {
	pb *progressbar.ProgressBar
}

// Bar starts a progress bar for total records. A zero total yields a bar that
// draws nothing.
func (c *Console) Bar(total int) *Bar {
	if total <= 0 {
		return &Bar{}
	}
	w := c.w
	return &Bar{pb: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)}
}

func (b *Bar) Advance() {
	if b.pb != nil {
		_ = b.pb.Add(1)
	}
}

func (b *Bar) Describe(msg string) {
	if b.pb != nil {
		b.pb.Describe(msg)
	}
}

func (b *Bar) Finish() {
	if b.pb != nil {
		_ = b.pb.Finish()
	}
}
