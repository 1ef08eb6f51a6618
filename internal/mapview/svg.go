package mapview

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const (
	pinRadius      = 12
	incidentRadius = 15
	markerRadius   = 8
)

// WriteSVG renders sc as a standalone SVG document.
func WriteSVG(w io.Writer, sc Scene) error {
	vb := sc.ViewBox
	if vb.Width <= 0 || vb.Height <= 0 {
		vb = DefaultViewBox
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" preserveAspectRatio="xMidYMid meet">`+"\n", vb)
	fmt.Fprintf(&b, `  <rect x="%s" y="%s" width="%s" height="%s" fill="#f8fafc"/>`+"\n",
		num(vb.MinX), num(vb.MinY), num(vb.Width), num(vb.Height))

	if r := sc.Route; r != nil {
		fmt.Fprintf(&b, `  <line class="route" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="4" stroke-dasharray="10 6"/>`+"\n",
			num(r.From.X), num(r.From.Y), num(r.To.X), num(r.To.Y), r.Color)
	}

	for _, p := range sc.Pins {
		radius := pinRadius
		switch p.Kind {
		case PinIncident:
			radius = incidentRadius
		case PinPickup, PinDropoff:
			radius = markerRadius
		}
		fmt.Fprintf(&b, `  <g class="pin %s" data-id="`, p.Kind)
		if err := xml.EscapeText(&b, []byte(p.ID)); err != nil {
			return err
		}
		b.WriteString(`">` + "\n")
		fmt.Fprintf(&b, `    <circle cx="%s" cy="%s" r="%d" fill="%s"/>`+"\n", num(p.At.X), num(p.At.Y), radius, p.Color)
		if p.Kind == PinLandmark {
			fmt.Fprintf(&b, `    <text x="%s" y="%s" font-size="14" text-anchor="middle">`, num(p.At.X), num(p.At.Y-pinRadius-6))
			if err := xml.EscapeText(&b, []byte(p.Label)); err != nil {
				return err
			}
			b.WriteString("</text>\n")
		}
		b.WriteString("  </g>\n")
	}
	b.WriteString("</svg>\n")

	_, err := w.Write(b.Bytes())
	return err
}
