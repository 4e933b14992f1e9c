package export

import (
	"time"
)

// Renderer produces export artifacts. Times are rendered in loc and file
// names embed the current time in loc.
type Renderer struct {
	loc      *time.Location
	fontPath string
	now      func() time.Time
}

// NewRenderer builds a Renderer. An empty fontPath makes the PDF exporter
// fall back to the core Helvetica font with diacritics folded to ASCII.
func NewRenderer(loc *time.Location, fontPath string) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{loc: loc, fontPath: fontPath, now: time.Now}
}

func (r *Renderer) stamp(layout string) string {
	return r.now().In(r.loc).Format(layout)
}
