package gpuscale

import "fmt"

// Profile describes a host video profile. gpuscale only uses its identity:
// one Environment exists per *Profile, and fields are never read.
type Profile struct {
	Description string
	Width       int
	Height      int

	// FrameRateNum and FrameRateDen express the frame rate as a fraction.
	FrameRateNum int
	FrameRateDen int

	Colorspace int
}

// String returns a short human-readable description.
func (p *Profile) String() string {
	if p == nil {
		return "Profile(nil)"
	}
	return fmt.Sprintf("Profile[%q %dx%d @%d/%d]", p.Description, p.Width, p.Height, p.FrameRateNum, p.FrameRateDen)
}
