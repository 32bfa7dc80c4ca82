package domain

// Mode selects which rendering pipeline serves a request.
type Mode string

const (
	// ModeBrand renders the template with the brand taken from the query string.
	ModeBrand Mode = "brand"
	// ModeSite renders a per-site page chosen from the path or at random.
	ModeSite Mode = "site"
	// ModeAuto uses brand mode when the brand key is present in the query, site mode otherwise.
	ModeAuto Mode = "auto"
)

// IsValid checks if the mode is a known value.
func (m Mode) IsValid() bool {
	switch m {
	case ModeBrand, ModeSite, ModeAuto:
		return true
	default:
		return false
	}
}
