package cli

import "tda/internal/config"

// Flags holds command-line flags
type Flags struct {
	TestPath     string
	NameFilter   string
	SettingsFile string
	MySQL        bool
	NoSave       bool
	Progress     bool
	ShowCases    bool
	Verbosity    int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		TestPath:     f.TestPath,
		NameFilter:   f.NameFilter,
		SettingsFile: f.SettingsFile,
		MySQL:        f.MySQL,
		NoSave:       f.NoSave,
		Progress:     f.Progress,
		ShowCases:    f.ShowCases,
		Verbosity:    f.Verbosity,
	}
}
