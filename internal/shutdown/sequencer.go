// Package shutdown runs the ordered teardown once an exit gesture has been
// recognized. Shutdown must never be preventable: every step is best-effort
// and the terminal step always runs.
package shutdown

import (
	"log"
	"os"
	"sync"
	"time"
)

// Steps lists the teardown actions in the order they run: stop forwarding
// input, stop the platform hook, stop the games, stop the recognizer,
// release window resources. Nil steps are skipped. Terminate ends the
// process and defaults to os.Exit(0).
type Steps struct {
	StopForwarding func()
	StopCapture    func() error
	StopGames      func()
	StopRecognizer func()
	ReleaseWindow  func()

	// GraceDelay gives asynchronous platform channels a moment to flush
	// before the process ends.
	GraceDelay time.Duration

	Terminate func()
}

// Sequencer executes the teardown exactly once. A second trigger while
// shutdown is underway is ignored; the first signal wins.
type Sequencer struct {
	once  sync.Once
	steps Steps
}

// New creates a sequencer for the given steps.
func New(steps Steps) *Sequencer {
	if steps.Terminate == nil {
		steps.Terminate = func() { os.Exit(0) }
	}
	return &Sequencer{steps: steps}
}

// Trigger starts the teardown. A panic in any step is swallowed and the
// remaining steps still run, so a failing platform call can never keep the
// kiosk alive.
func (sequencer *Sequencer) Trigger() {
	sequencer.once.Do(sequencer.runSteps)
}

func (sequencer *Sequencer) runSteps() {
	steps := sequencer.steps

	attempt("stop forwarding", steps.StopForwarding)
	attempt("stop capture", func() {
		if steps.StopCapture == nil {
			return
		}
		if err := steps.StopCapture(); err != nil {
			log.Printf("shutdown: stop capture: %v", err)
		}
	})
	attempt("stop games", steps.StopGames)
	attempt("stop recognizer", steps.StopRecognizer)
	attempt("release window", steps.ReleaseWindow)

	if steps.GraceDelay > 0 {
		time.Sleep(steps.GraceDelay)
	}

	steps.Terminate()
}

func attempt(name string, step func()) {
	if step == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("shutdown: %s: %v", name, recovered)
		}
	}()
	step()
}
