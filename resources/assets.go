// Package resources builds the tray icons.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
)

const iconSize = 64

var (
	activeColor = color.NRGBA{R: 0x2e, G: 0xa0, B: 0x6b, A: 0xff}
	pausedColor = color.NRGBA{R: 0x8a, G: 0x8f, B: 0x98, A: 0xff}
	handColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var iconCache sync.Map

// ActiveIcon is shown while breaks are scheduled.
func ActiveIcon() fyne.Resource {
	return mustIcon("breaktime-active.png", activeColor)
}

// PausedIcon is shown while breaks are paused.
func PausedIcon() fyne.Resource {
	return mustIcon("breaktime-paused.png", pausedColor)
}

func mustIcon(name string, fill color.NRGBA) fyne.Resource {
	resource, err := loadIcon(name, fill)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadIcon(name string, fill color.NRGBA) (fyne.Resource, error) {
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, drawClock(fill)); err != nil {
		return nil, fmt.Errorf("encode icon %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(name, buffer.Bytes())
	iconCache.Store(name, resource)
	return resource, nil
}

// drawClock paints a filled disc with two clock hands.
func drawClock(fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := iconSize / 2
	radius := iconSize/2 - 2

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := x-center, y-center
			if dx*dx+dy*dy <= radius*radius {
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	// Minute hand points up, hour hand points right.
	for offset := -2; offset <= 2; offset++ {
		for y := center - radius*3/4; y <= center; y++ {
			img.SetNRGBA(center+offset, y, handColor)
		}
		for x := center; x <= center+radius/2; x++ {
			img.SetNRGBA(x, center+offset, handColor)
		}
	}
	return img
}
