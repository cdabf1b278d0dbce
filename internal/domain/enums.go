package domain

// CodeStatus is the validation verdict for a billed code.
type CodeStatus string

const (
	StatusAccepted CodeStatus = "accepted"
	StatusDisputed CodeStatus = "disputed"
)

// Setting identifies the care setting a price variant applies to.
// Disclosure files use "both" for rates shared across settings.
type Setting string

const (
	SettingInpatient  Setting = "inpatient"
	SettingOutpatient Setting = "outpatient"
	SettingBoth       Setting = "both"
)

// Matches reports whether a variant with this setting satisfies a requested
// setting filter. An empty filter matches everything.
func (s Setting) Matches(requested string) bool {
	if requested == "" {
		return true
	}
	return s == SettingBoth || string(s) == requested
}
