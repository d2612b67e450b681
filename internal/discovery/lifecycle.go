package discovery

import (
	"fmt"

	"tda/internal/engine"
)

// withRunner acquires a runner for source, hands it to fn and releases it
// on every exit path, panics included. A panic in fn is returned as an
// error.
func withRunner(factory engine.Factory, source string, log Logger, fn func(engine.Runner) error) (err error) {
	runner, err := factory.NewRunner(source)
	if err != nil {
		return err
	}
	defer release(runner, source, log)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic exploring %s: %v", source, r)
		}
	}()

	return fn(runner)
}

// release stops, unloads and disposes runner. Each step is attempted even
// if an earlier one fails; failures are only logged at debug level.
func release(runner engine.Runner, source string, log Logger) {
	attempt(log, source, "stop", func() error {
		if runner.IsRunInProgress() {
			return runner.StopRun(true)
		}
		return nil
	})
	attempt(log, source, "unload", runner.Unload)
	attempt(log, source, "dispose", runner.Dispose)
}

func attempt(log Logger, source, step string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug(fmt.Sprintf("Runner %s for %s panicked: %v", step, source, r))
		}
	}()
	if err := fn(); err != nil {
		log.Debug(fmt.Sprintf("Runner %s for %s failed: %v", step, source, err))
	}
}
