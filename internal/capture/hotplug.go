package capture

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"voicebooth/internal/logging"
)

// HotplugEvent is a sound device appearing or disappearing.
type HotplugEvent struct {
	Action string
	Device string
	Model  string
}

// Removed reports whether the device went away.
func (e HotplugEvent) Removed() bool {
	return e.Action == string(netlink.REMOVE)
}

// HotplugMonitor listens for udev netlink events on the sound subsystem so an
// operator who unplugs the microphone mid-session sees why capture stalled.
type HotplugMonitor struct {
	logger  *slog.Logger
	handler func(HotplugEvent)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewHotplugMonitor creates a monitor. handler may be nil; events are always logged.
func NewHotplugMonitor(logger *slog.Logger, handler func(HotplugEvent)) *HotplugMonitor {
	return &HotplugMonitor{
		logger:  logging.NewComponentLogger(logger, "hotplug"),
		handler: handler,
	}
}

// Start begins listening. Failing to open the netlink socket is logged and
// otherwise ignored.
func (m *HotplugMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket; device hotplug will not be reported", "hotplug_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "netlink sockets are unavailable in some containers; disable [hotplug] to silence this"),
			logging.String(logging.FieldImpact, "microphone removal not reported"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Debug("hotplug monitor started",
		logging.String(logging.FieldEventType, "hotplug_monitor_started"),
	)
	return nil
}

// Stop shuts down the monitor. It is safe to call on a nil or stopped monitor.
func (m *HotplugMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

// Running reports whether the monitor is active.
func (m *HotplugMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *HotplugMonitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildSoundMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Debug("netlink monitor error", logging.Error(err))
		}
	}
}

// buildSoundMatcher matches SUBSYSTEM=sound with ACTION=add|remove.
func buildSoundMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	})
	return rules
}

func (m *HotplugMonitor) handleEvent(uevent netlink.UEvent) {
	ev := HotplugEvent{
		Action: string(uevent.Action),
		Device: deviceName(uevent),
		Model:  firstNonEmpty(uevent.Env["ID_MODEL_FROM_DATABASE"], uevent.Env["ID_MODEL"]),
	}
	// Only card-level control nodes are interesting; PCM nodes fire per stream.
	base := path.Base(ev.Device)
	if ev.Device == "" || !(strings.HasPrefix(base, "control") || strings.HasPrefix(base, "card")) {
		return
	}

	if ev.Removed() {
		logging.WarnWithContext(m.logger, "sound device removed", "sound_device_removed",
			logging.String("device", ev.Device),
			logging.String("model", ev.Model),
			logging.String(logging.FieldErrorHint, "reconnect the microphone and restart the session"),
			logging.String(logging.FieldImpact, "capture from this device will fail"),
		)
	} else {
		m.logger.Info("sound device added",
			logging.String(logging.FieldEventType, "sound_device_added"),
			logging.String("device", ev.Device),
			logging.String("model", ev.Model),
		)
	}

	if m.handler != nil {
		m.handler(ev)
	}
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	if devpath := uevent.Env["DEVPATH"]; devpath != "" {
		return path.Base(devpath)
	}
	if uevent.KObj != "" {
		return path.Base(uevent.KObj)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
