package photometa

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXMP = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    xmp:CreateDate="2019-08-03T17:45:12">
   <dc:subject>
    <rdf:Bag>
     <rdf:li>holiday</rdf:li>
     <rdf:li> beach </rdf:li>
     <rdf:li>holiday</rdf:li>
    </rdf:Bag>
   </dc:subject>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

func jpegBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func TestFindXMPPacket(t *testing.T) {
	data := append([]byte("binary\x00prefix"), []byte(sampleXMP)...)
	data = append(data, []byte("\x00trailer")...)

	packet := FindXMPPacket(data)
	require.NotNil(t, packet)
	assert.True(t, bytes.HasPrefix(packet, []byte("<x:xmpmeta")))
	assert.True(t, bytes.HasSuffix(packet, []byte("</x:xmpmeta>")))

	assert.Nil(t, FindXMPPacket([]byte("no packet here")))
	assert.Nil(t, FindXMPPacket([]byte("<x:xmpmeta unterminated")))
}

func TestParseXMP_AttributeForm(t *testing.T) {
	x, err := ParseXMP([]byte(sampleXMP))
	require.NoError(t, err)

	assert.Equal(t, []string{"holiday", "beach"}, x.Keywords)
	require.NotNil(t, x.CreatedAt)
	assert.Equal(t, time.Date(2019, 8, 3, 17, 45, 12, 0, time.Local), *x.CreatedAt)
}

func TestParseXMP_ElementFormPriority(t *testing.T) {
	doc := `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description xmlns:exif="http://ns.adobe.com/exif/1.0/" xmlns:photoshop="http://ns.adobe.com/photoshop/1.0/">
   <photoshop:DateCreated>2001-01-01</photoshop:DateCreated>
   <exif:DateTimeOriginal>2020-02-29T08:00:00Z</exif:DateTimeOriginal>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

	x, err := ParseXMP([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, x.Keywords)
	require.NotNil(t, x.CreatedAt)
	assert.True(t, x.CreatedAt.Equal(time.Date(2020, 2, 29, 8, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2018:06:15 10:20:30", time.Date(2018, 6, 15, 10, 20, 30, 0, time.Local), true},
		{"2018-06-15T10:20:30", time.Date(2018, 6, 15, 10, 20, 30, 0, time.Local), true},
		{"2018-06-15T10:20", time.Date(2018, 6, 15, 10, 20, 0, 0, time.Local), true},
		{"2018-06-15", time.Date(2018, 6, 15, 0, 0, 0, 0, time.Local), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestReader_ReadTags_EmbeddedXMP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_0001.jpg")
	data := append(jpegBytes(t), []byte(sampleXMP)...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	md, err := NewReader().ReadTags(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"holiday", "beach"}, md.Keywords)
	require.NotNil(t, md.CreatedAt)
	assert.Equal(t, 2019, md.CreatedAt.Year())
}

func TestReader_ReadTags_Sidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DSC_0042.NEF")
	require.NoError(t, os.WriteFile(path, []byte("not really a raw file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DSC_0042.xmp"), []byte(sampleXMP), 0o644))

	md, err := NewReader().ReadTags(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"holiday", "beach"}, md.Keywords)
}

func TestReader_ReadTags_NoMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, jpegBytes(t), 0o644))

	md, err := NewReader().ReadTags(context.Background(), path)
	require.NoError(t, err)
	assert.Nil(t, md.CreatedAt)
	assert.Empty(t, md.Keywords)
}

func TestReader_ReadTags_MissingFile(t *testing.T) {
	_, err := NewReader().ReadTags(context.Background(), filepath.Join(t.TempDir(), "gone.jpg"))
	assert.Error(t, err)
}

func TestBirthTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.jpg")
	before := time.Now().Add(-time.Minute)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	got, err := BirthTime(path)
	require.NoError(t, err)
	assert.True(t, got.After(before), "birth time %v should be recent", got)

	_, err = BirthTime(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
