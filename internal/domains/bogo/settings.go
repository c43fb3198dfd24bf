package bogo

// staticSettings holds the storewide flags loaded at startup
type staticSettings struct {
	autoAdd   bool
	autoApply bool
	label     string
}

// NewStaticSettings builds a Settings snapshot from configuration
func NewStaticSettings(autoAdd, autoApply bool, label string) Settings {
	if label == "" {
		label = "Free gift"
	}
	return &staticSettings{
		autoAdd:   autoAdd,
		autoApply: autoApply,
		label:     label,
	}
}

func (s *staticSettings) AutoAddEnabled() bool   { return s.autoAdd }
func (s *staticSettings) AutoApplyEnabled() bool { return s.autoApply }
func (s *staticSettings) FreeItemLabel() string  { return s.label }
