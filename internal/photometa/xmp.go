package photometa

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"slices"
	"strings"
	"time"
)

// XMP holds the fields read from an XMP packet.
type XMP struct {
	CreatedAt *time.Time
	Keywords  []string
}

var (
	xmpStart = []byte("<x:xmpmeta")
	xmpEnd   = []byte("</x:xmpmeta>")
)

// FindXMPPacket returns the first <x:xmpmeta> element embedded in data, or
// nil when there is none.
func FindXMPPacket(data []byte) []byte {
	start := bytes.Index(data, xmpStart)
	if start < 0 {
		return nil
	}
	end := bytes.Index(data[start:], xmpEnd)
	if end < 0 {
		return nil
	}
	return data[start : start+end+len(xmpEnd)]
}

// Date properties in priority order.
var xmpDateProps = []string{"DateTimeOriginal", "CreateDate", "DateCreated"}

// ParseXMP extracts dc:subject keywords and the capture date from an XMP
// document. Namespace prefixes are ignored; properties are matched by local
// name in both attribute and element form.
func ParseXMP(data []byte) (*XMP, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	dates := map[string]string{}
	var keywords []string
	var inSubject bool
	var text strings.Builder
	var capture string

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch name := t.Name.Local; {
			case name == "Description":
				for _, attr := range t.Attr {
					if isDateProp(attr.Name.Local) {
						dates[attr.Name.Local] = attr.Value
					}
				}
			case name == "subject":
				inSubject = true
			case name == "li" && inSubject:
				capture = "li"
				text.Reset()
			case isDateProp(name):
				capture = name
				text.Reset()
			}
		case xml.CharData:
			if capture != "" {
				text.Write(t)
			}
		case xml.EndElement:
			switch name := t.Name.Local; {
			case name == "subject":
				inSubject = false
			case name == "li" && capture == "li":
				keywords = appendUnique(keywords, text.String())
				capture = ""
			case capture != "" && name == capture:
				dates[name] = strings.TrimSpace(text.String())
				capture = ""
			}
		}
	}

	x := &XMP{Keywords: keywords}
	for _, prop := range xmpDateProps {
		if t, ok := ParseDate(dates[prop]); ok {
			x.CreatedAt = &t
			break
		}
	}
	return x, nil
}

func isDateProp(name string) bool {
	return slices.Contains(xmpDateProps, name)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006:01:02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the timestamp layouts found in EXIF and XMP. Values without
// a zone are read as local time.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
