package reports

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/JaimeStill/scorecard/internal/status"
)

// DefaultChartSize is the edge length in pixels of a rendered pie chart.
const DefaultChartSize = 320

// Chart is a rendered status pie chart. Image is PNG data, base64 encoded in JSON.
type Chart struct {
	Counts status.Counts `json:"counts"`
	Image  []byte        `json:"image"`
}

// Wedge is one slice of a pie chart.
type Wedge struct {
	Color    color.NRGBA
	Fraction float64
}

// Wedges splits counts into wedges in display order.
// Empty counts yield a single neutral wedge covering the whole pie.
func Wedges(c status.Counts) []Wedge {
	total := c.Total()
	if total == 0 {
		return []Wedge{{Color: status.Neutral, Fraction: 1}}
	}

	buckets := c.NonZero()
	wedges := make([]Wedge, len(buckets))
	for i, b := range buckets {
		wedges[i] = Wedge{
			Color:    b.Status.Color(),
			Fraction: float64(b.Count) / float64(total),
		}
	}
	return wedges
}

// Pie draws a pie chart of counts on a white square canvas.
// Wedges start at twelve o'clock and run clockwise.
func Pie(c status.Counts, size int) *image.NRGBA {
	img := imaging.New(size, size, color.White)
	wedges := Wedges(c)

	center := float64(size) / 2
	radius := center - 2

	for y := range size {
		for x := range size {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy > radius*radius {
				continue
			}

			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			img.SetNRGBA(x, y, wedgeAt(wedges, angle/(2*math.Pi)))
		}
	}

	return img
}

func wedgeAt(wedges []Wedge, position float64) color.NRGBA {
	cumulative := 0.0
	for _, w := range wedges {
		cumulative += w.Fraction
		if position < cumulative {
			return w.Color
		}
	}
	return wedges[len(wedges)-1].Color
}

// RenderChart draws and PNG-encodes the pie chart for counts.
func RenderChart(c status.Counts, size int) (Chart, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Pie(c, size), imaging.PNG); err != nil {
		return Chart{}, err
	}
	return Chart{Counts: c, Image: buf.Bytes()}, nil
}
