package deckexport

// Internal slide part model for the PPTX emitter. The deck builder in
// pptx.go lowers slides into these records; the writer in pptx_writer.go
// serializes them without knowing anything about layouts or themes.

// fillKind selects how a slide background is painted.
type fillKind int

const (
	fillNone fillKind = iota
	fillSolid
	fillGradient
	fillImage
)

// fillSpec describes a slide background. Color fields are 6-digit RGB hex
// without the leading '#'. MediaIndex points into the part list's media
// table when Kind is fillImage.
type fillSpec struct {
	Kind       fillKind
	Color      string
	From, To   string
	Vertical   bool
	MediaIndex int
}

// runSpec is one styled text run.
type runSpec struct {
	Text   string
	Family string
	Size   int
	Bold   bool
	Color  string
}

// bulletKind selects the paragraph marker.
type bulletKind int

const (
	bulletNone bulletKind = iota
	bulletChar
	bulletNumbered
)

// paraSpec is one paragraph inside a text shape.
type paraSpec struct {
	Runs    []runSpec
	Align   Align
	Bullet  bulletKind
	StartAt int
}

// textShape is a free-positioned text box. Offsets and extents are EMU.
type textShape struct {
	Name       string
	X, Y       int64
	CX, CY     int64
	Paragraphs []paraSpec
	Anchor     string
}

// picShape is a placed picture referencing an entry in the media table.
type picShape struct {
	Name       string
	Desc       string
	X, Y       int64
	CX, CY     int64
	MediaIndex int
}

// slidePart is everything the writer needs to emit one slide.
type slidePart struct {
	Background fillSpec
	Texts      []textShape
	Pics       []picShape
	Notes      string
}

// mediaItem is one binary payload stored under ppt/media.
type mediaItem struct {
	Data        []byte
	Ext         string
	ContentType string
}

// pptxDoc is the fully lowered document handed to the writer.
type pptxDoc struct {
	Title  string
	Slides []slidePart
	Media  []mediaItem
}

// addMedia appends a payload and returns its 1-based media index.
func (d *pptxDoc) addMedia(data []byte, mime string) int {
	item := mediaItem{Data: data, ContentType: mime}
	switch mime {
	case "image/png":
		item.Ext = "png"
	case "image/jpeg":
		item.Ext = "jpeg"
	case "image/gif":
		item.Ext = "gif"
	case "image/svg+xml":
		item.Ext = "svg"
	default:
		item.Ext = "png"
	}
	d.Media = append(d.Media, item)
	return len(d.Media)
}
