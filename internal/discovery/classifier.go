package discovery

import (
	"fmt"

	"tda/internal/engine"
)

// LegacyControllerType is the controller type only pre-3.0 frameworks
// reference. Failing to load it marks a legacy test binary.
const LegacyControllerType = "NUnit.Framework.Api.FrameworkController"

// Outcome tags how a failed binary is reported.
type Outcome int

const (
	OutcomeUnexpected Outcome = iota
	OutcomeUnsupportedImage
	OutcomeMissingDependency
	OutcomeDependencyLoad
	OutcomeLegacyAssembly
	OutcomeTypeLoad
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnsupportedImage:
		return "unsupported_image"
	case OutcomeMissingDependency:
		return "missing_dependency"
	case OutcomeDependencyLoad:
		return "dependency_load"
	case OutcomeLegacyAssembly:
		return "legacy_assembly"
	case OutcomeTypeLoad:
		return "type_load"
	default:
		return "unexpected"
	}
}

// Classification is the warning to log for a failed binary. Detail is nil
// when the message is complete on its own.
type Classification struct {
	Outcome Outcome
	Message string
	Detail  error
}

// Classify maps an error raised while acquiring or exploring source to the
// warning that reports it. Every outcome is non-fatal to the run.
func Classify(source string, err error) Classification {
	f, ok := engine.AsFailure(err)
	if !ok {
		return unexpected(source, err)
	}

	switch f.Kind {
	case engine.KindUnsupportedImage:
		return Classification{
			Outcome: OutcomeUnsupportedImage,
			Message: "Assembly not supported: " + source,
		}
	case engine.KindMissingDependency:
		return Classification{
			Outcome: OutcomeMissingDependency,
			Message: fmt.Sprintf("Dependent assembly %s of %s not found. Can be ignored if not a test project.", f.Name, source),
		}
	case engine.KindDependencyLoad:
		return Classification{
			Outcome: OutcomeDependencyLoad,
			Message: fmt.Sprintf("Assembly %s loaded through %s failed. Assembly is ignored. Correct deployment of dependencies if this is an error.", f.Name, source),
		}
	case engine.KindTypeLoad:
		if f.Name == LegacyControllerType {
			return Classification{
				Outcome: OutcomeLegacyAssembly,
				Message: "Skipping legacy test assembly: " + source,
			}
		}
		c := unexpected(source, err)
		c.Outcome = OutcomeTypeLoad
		return c
	default:
		return unexpected(source, err)
	}
}

func unexpected(source string, err error) Classification {
	return Classification{
		Outcome: OutcomeUnexpected,
		Message: "Exception thrown discovering tests in " + source,
		Detail:  err,
	}
}
