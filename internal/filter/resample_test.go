package filter

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestResampleSize(t *testing.T) {
	src := solid(8, 4, color.RGBA{R: 255, A: 255})
	tests := []struct {
		name string
		mode Mode
		w, h int
	}{
		{"bilinear up", ModeBilinear, 16, 8},
		{"catmull-rom down", ModeCatmullRom, 3, 2},
		{"cosine swap", ModeCosine, 4, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := Resample(src, tt.w, tt.h, tt.mode)
			if got := dst.Bounds(); got.Dx() != tt.w || got.Dy() != tt.h {
				t.Errorf("Resample() bounds = %v, want %dx%d", got, tt.w, tt.h)
			}
		})
	}
}

func TestResampleSolidColor(t *testing.T) {
	want := color.RGBA{R: 40, G: 80, B: 120, A: 255}
	src := solid(10, 10, want)
	for _, m := range []Mode{ModeBilinear, ModeCatmullRom, ModeCosine} {
		dst := Resample(src, 23, 7, m)
		got := dst.RGBAAt(11, 3)
		if got != want {
			t.Errorf("mode %d: pixel = %v, want %v", m, got, want)
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	src := solid(4, 4, color.RGBA{A: 255})
	if got := Resample(src, 0, 5, ModeBilinear).Bounds(); !got.Empty() {
		t.Errorf("Resample(0x5) bounds = %v, want empty", got)
	}
}

func TestModeForSpline(t *testing.T) {
	if got := ModeForSpline(SplineCosine); got != ModeCosine {
		t.Errorf("ModeForSpline(cosine) = %d, want %d", got, ModeCosine)
	}
	if got := ModeForSpline(SplineCatmullRom); got != ModeCatmullRom {
		t.Errorf("ModeForSpline(catmull-rom) = %d, want %d", got, ModeCatmullRom)
	}
}
