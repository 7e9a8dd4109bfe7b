// Package embed is the embedding surface (ES): the start-of-simulation
// handshake every backend drives once, before handing control to the
// hosted test runtime, and the shutdown path that runs it back down.
package embed

import (
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/gogpi/backend"
	"github.com/sarchlab/gogpi/gpi"
	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/loader/extra"
	"github.com/sarchlab/gogpi/logbridge"
)

// EnvExtraLibs is the separator-delimited extra-libraries list.
const EnvExtraLibs = "GOGPI_EXTRA_LIBS"

// EnvExtraLibsFile is the optional YAML extra-libraries manifest.
const EnvExtraLibsFile = "GOGPI_EXTRA_LIBS_FILE"

// Surface drives the start-of-simulation handshake for one process: it
// loads configured extra libraries, brings the façade online, and
// arranges for a clean shutdown however the process ends.
type Surface struct {
	facade  *gpi.Facade
	log     *logbridge.Logger
	session logbridge.SessionID

	shutdown bool
}

// NewSurface creates a Surface dispatching through facade.
func NewSurface(facade *gpi.Facade) *Surface {
	session := logbridge.NewSessionID()
	return &Surface{
		facade:  facade,
		log:     logbridge.New("embed", session),
		session: session,
	}
}

// Session returns this surface's correlation id.
func (s *Surface) Session() logbridge.SessionID { return s.session }

// Start runs the full start-of-simulation handshake: load extra
// libraries from the environment, then bring the hosted runtime online
// via EmbedInit. It registers EmbedEvent(forced-shutdown) on process exit
// as a last resort, the way a native GPI layer relies on the process
// image going away to guarantee cleanup even if the simulator never
// calls back in cleanly.
func (s *Surface) Start(info gpi.SimulatorInfo) error {
	s.log.Info("start-of-simulation", "product", info.Product, "version", info.Version)

	if err := s.loadExtraLibraries(); err != nil {
		return err
	}

	if err := s.facade.EmbedInit(info); err != nil {
		s.log.Error("EmbedInit failed", "error", err.Error())
		return err
	}

	atexit.Register(func() {
		if !s.shutdown {
			s.EmbedEvent(backend.EventForcedShutdown, "process exit with no clean shutdown")
		}
	})

	return nil
}

func (s *Surface) loadExtraLibraries() error {
	var entries []extra.Entry

	if file := os.Getenv(EnvExtraLibsFile); file != "" {
		manifest, err := extra.LoadManifest(file)
		if err != nil {
			return err
		}
		entries = append(entries, manifest.Libraries...)
	}
	if list := os.Getenv(EnvExtraLibs); list != "" {
		entries = append(entries, extra.ParseList(list)...)
	}
	if len(entries) == 0 {
		return nil
	}

	s.log.Info("loading extra libraries", "count", len(entries))
	return extra.LoadAll(entries)
}

// EmbedEvent notifies the hosted runtime of an out-of-band event and, for
// shutdown kinds, releases the façade's registered callbacks. Safe to
// call more than once; once a shutdown-kind event has been handled, every
// later call has no effect.
func (s *Surface) EmbedEvent(kind backend.EventKind, message string) {
	if s.shutdown {
		return
	}
	s.log.Info("embed event", "kind", kind.String(), "message", message)
	s.facade.EmbedEvent(kind, message)

	if kind == backend.EventNormalShutdown || kind == backend.EventForcedShutdown {
		s.shutdown = true
		if err := s.facade.SimEnd(); err != nil && !gpierr.Is(err, gpierr.InternalError) {
			s.log.Warn("SimEnd during shutdown reported an error", "error", err.Error())
		}
	}
}
