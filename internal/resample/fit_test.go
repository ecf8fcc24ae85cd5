package resample

import "testing"

func TestCalculateFitContain(t *testing.T) {
	cases := []struct {
		srcW, srcH, tW, tH int
	}{
		{800, 600, 200, 200},
		{600, 800, 200, 100},
		{1920, 1080, 300, 300},
		{10, 3000, 100, 100},
	}
	for _, c := range cases {
		w, h, crop := CalculateFit(c.srcW, c.srcH, c.tW, c.tH, FitContain)
		if crop != nil {
			t.Fatalf("contain %dx%d -> %dx%d: unexpected crop %+v", c.srcW, c.srcH, c.tW, c.tH, crop)
		}
		if w > c.tW || h > c.tH {
			t.Fatalf("contain %dx%d -> %dx%d: result %dx%d exceeds target", c.srcW, c.srcH, c.tW, c.tH, w, h)
		}
		if w != c.tW && h != c.tH {
			t.Fatalf("contain %dx%d -> %dx%d: result %dx%d touches neither target edge", c.srcW, c.srcH, c.tW, c.tH, w, h)
		}
	}
}

func TestCalculateFitCover(t *testing.T) {
	w, h, crop := CalculateFit(800, 600, 200, 200, FitCover)
	if crop == nil {
		t.Fatal("cover must produce a crop region")
	}
	if crop.Width != 200 || crop.Height != 200 {
		t.Fatalf("cover crop must equal target size, got %dx%d", crop.Width, crop.Height)
	}
	if w < 200 || h < 200 {
		t.Fatalf("cover scaled dims %dx%d smaller than target", w, h)
	}
	if crop.X != (w-200)/2 || crop.Y != (h-200)/2 {
		t.Fatalf("cover crop not centered: %+v for scaled %dx%d", crop, w, h)
	}
	if crop.X+crop.Width > w || crop.Y+crop.Height > h {
		t.Fatalf("cover crop %+v exceeds scaled %dx%d", crop, w, h)
	}
}

func TestCalculateFitFill(t *testing.T) {
	w, h, crop := CalculateFit(800, 600, 123, 456, FitFill)
	if w != 123 || h != 456 || crop != nil {
		t.Fatalf("fill should return target verbatim, got %dx%d crop=%+v", w, h, crop)
	}
}

func TestCalculateFitOutside(t *testing.T) {
	w, h, crop := CalculateFit(800, 600, 200, 200, FitOutside)
	if crop != nil {
		t.Fatalf("outside must not crop, got %+v", crop)
	}
	if w < 200 || h < 200 {
		t.Fatalf("outside result %dx%d must cover the target box", w, h)
	}
}

func TestCalculateFitFloorsAtOne(t *testing.T) {
	w, h, _ := CalculateFit(10000, 1, 10, 10, FitContain)
	if w < 1 || h < 1 {
		t.Fatalf("scaled dims must stay positive, got %dx%d", w, h)
	}
}

func TestParseFitMode(t *testing.T) {
	cases := map[string]FitMode{
		"fill":      FitFill,
		"Cover":     FitCover,
		" outside ": FitOutside,
		"contain":   FitContain,
		"inside":    FitContain,
		"bogus":     FitContain,
		"":          FitContain,
	}
	for in, want := range cases {
		if got := ParseFitMode(in); got != want {
			t.Fatalf("ParseFitMode(%q) = %v, want %v", in, got, want)
		}
	}
}
