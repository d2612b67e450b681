package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default directory scanned for test binaries
	DefaultTestPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "discovered-tests.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".tda"
	// DefaultSettingsFile is the run-settings file looked up in the project path
	DefaultSettingsFile = "tda.runsettings.yaml"
	// DefaultExplorerCommand is the engine console used to explore binaries
	DefaultExplorerCommand = "nunit3-console"
	// RandomSeedFile is written next to each binary when no seed is configured
	RandomSeedFile = "tda_random_seed.tmp"
)

// DefaultExplorerArgs are passed to the explorer command. {output} and
// {source} are expanded per binary.
var DefaultExplorerArgs = []string{"--explore={output}", "--noheader", "{source}"}

// DefaultPathsToIgnore are the default directories to ignore when scanning for binaries
var DefaultPathsToIgnore = []string{
	"obj",
	"node_modules",
	"packages",
	".tda",
}
