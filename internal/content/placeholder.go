package content

import (
	"bytes"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/abhisek/gyankosh/internal/library"
)

const (
	placeholderWidth  = 600
	placeholderHeight = 400
	placeholderLines  = 6
)

var (
	placeholderBG   = color.NRGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	placeholderInk  = color.NRGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}
	placeholderEdge = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}

	faceOnce sync.Once
	face     font.Face
)

func placeholderFace() font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			face = basicfont.Face7x13
			return
		}
		face = truetype.NewFace(f, &truetype.Options{Size: 20, Hinting: font.HintingFull})
	})
	return face
}

// Placeholder draws a neutral card carrying the start of prompt, for pages
// whose artwork could not be generated.
func Placeholder(prompt string) *library.Illustration {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)
	dc.SetColor(placeholderBG)
	dc.Clear()

	dc.SetColor(placeholderEdge)
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(12, 12, placeholderWidth-24, placeholderHeight-24, 16)
	dc.Stroke()

	dc.SetFontFace(placeholderFace())
	dc.SetColor(placeholderInk)

	text := strings.TrimSpace(prompt)
	if text == "" {
		text = "Picture coming soon"
	}
	lines := dc.WordWrap(text, placeholderWidth-80)
	if len(lines) > placeholderLines {
		lines = lines[:placeholderLines]
		lines[placeholderLines-1] += " ..."
	}
	dc.DrawStringWrapped(strings.Join(lines, "\n"), placeholderWidth/2, placeholderHeight/2,
		0.5, 0.5, placeholderWidth-80, 1.4, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return &library.Illustration{MIMEType: "image/png", Placeholder: true}
	}
	return &library.Illustration{MIMEType: "image/png", Data: buf.Bytes(), Placeholder: true}
}
