// Package settings reconciles the session's device and settings state.
//
// Adjustments and toggles are optimistic: the new value is stored and
// notified immediately while the matching OS command is submitted
// fire-and-forget, so the recorded value can drift from the true OS
// state if the tool fails silently. Late failures come back through
// the sink's completion feed and are logged by the session loop.
// Startup seeding is the only place blocking queries are allowed.
package settings

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/notify"
	"github.com/blue-environment/blued/internal/sink"
)

// State is a snapshot of the session's settings.
type State struct {
	Brightness       float64 `json:"brightness"`
	Volume           float64 `json:"volume"`
	WifiEnabled      bool    `json:"wifi_enabled"`
	BluetoothEnabled bool    `json:"bluetooth_enabled"`
	Timezone         string  `json:"timezone"`
	Battery          string  `json:"battery"`
	Clock            string  `json:"clock"`
	Distro           string  `json:"distro"`
}

const clockFormat = "2006-01-02 15:04:05"

// Safe defaults when a startup probe fails or its output is not
// recognised.
const (
	batteryNotDetected = "Battery not detected"
	distroUnknown      = "unknown"
)

// Controller owns SettingsState and delegates changes to the sink.
type Controller struct {
	mu      sync.RWMutex
	state   State // Protected by mu
	sink    sink.Sink
	notes   *notify.Log
	log     *logging.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// NewController creates a controller with midpoint levels. Radio state
// and battery are placeholders until Seed runs.
func NewController(s sink.Sink, notes *notify.Log, log *logging.Logger) *Controller {
	c := &Controller{
		sink:  s,
		notes: notes,
		log:   log,
		now:   time.Now,
	}
	c.state = State{
		Brightness: 0.5,
		Volume:     0.5,
		Battery:    batteryNotDetected,
		Distro:     distroUnknown,
	}
	c.state.Clock = c.now().Format(clockFormat)
	return c
}

// WithMetrics adds metrics tracking to the controller.
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// Seed performs the blocking startup queries for actual wifi,
// bluetooth and battery state, plus distro detection. Each probe falls
// back to its safe default on error or unrecognised output. This is
// the only blocking phase of the session.
func (c *Controller) Seed(ctx context.Context) {
	wifi := c.queryWifi(ctx)
	bluetooth := c.queryBluetooth(ctx)
	battery := c.queryBattery(ctx)
	distro := detectDistro()

	c.mu.Lock()
	c.state.WifiEnabled = wifi
	c.state.BluetoothEnabled = bluetooth
	c.state.Battery = battery
	c.state.Distro = distro
	c.mu.Unlock()

	c.log.Info("settings seeded",
		zap.Bool("wifi", wifi),
		zap.Bool("bluetooth", bluetooth),
		zap.String("battery", battery),
		zap.String("distro", distro))
}

func (c *Controller) queryWifi(ctx context.Context) bool {
	out, err := c.sink.Query(ctx, "nmcli", "radio", "wifi")
	if err != nil {
		return false
	}
	return strings.Contains(out, "enabled")
}

func (c *Controller) queryBluetooth(ctx context.Context) bool {
	out, err := c.sink.Query(ctx, "bluetoothctl", "show")
	if err != nil {
		return false
	}
	return strings.Contains(out, "Powered: yes")
}

func (c *Controller) queryBattery(ctx context.Context) string {
	out, err := c.sink.Query(ctx, "upower", "-i", "/org/freedesktop/UPower/devices/battery_BAT0")
	if err != nil {
		return batteryNotDetected
	}

	var fields []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "state:") || strings.Contains(line, "percentage:") {
			fields = append(fields, strings.TrimSpace(line))
		}
	}
	if len(fields) == 0 {
		return batteryNotDetected
	}
	return strings.Join(fields, ", ")
}

func detectDistro() string {
	content, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return distroUnknown
	}
	for _, line := range strings.Split(string(content), "\n") {
		if id, ok := strings.CutPrefix(line, "ID="); ok {
			return strings.Trim(id, `"`)
		}
	}
	return distroUnknown
}

// AdjustBrightness clamps brightness+delta into [0,1], submits the
// backlight command and records the intended value.
func (c *Controller) AdjustBrightness(delta float64) {
	c.mu.Lock()
	c.state.Brightness = clamp(c.state.Brightness + delta)
	percent := roundPercent(c.state.Brightness)
	c.mu.Unlock()

	c.sink.Submit("brightnessctl", "set", fmt.Sprintf("%d%%", percent))
	c.notes.Append(fmt.Sprintf("Brightness set to %d%%", percent))
	c.recordOp("brightness")
}

// AdjustVolume clamps volume+delta into [0,1], submits the mixer
// command and records the intended value.
func (c *Controller) AdjustVolume(delta float64) {
	c.mu.Lock()
	c.state.Volume = clamp(c.state.Volume + delta)
	percent := roundPercent(c.state.Volume)
	c.mu.Unlock()

	c.sink.Submit("wpctl", "set-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", percent))
	c.notes.Append(fmt.Sprintf("Volume set to %d%%", percent))
	c.recordOp("volume")
}

// ToggleWifi flips the wifi radio and submits the matching command.
func (c *Controller) ToggleWifi() {
	c.mu.Lock()
	c.state.WifiEnabled = !c.state.WifiEnabled
	status := onOff(c.state.WifiEnabled)
	c.mu.Unlock()

	c.sink.Submit("nmcli", "radio", "wifi", status)
	c.notes.Append(fmt.Sprintf("Wi-Fi turned %s", status))
	c.recordOp("wifi")
}

// ToggleBluetooth flips the bluetooth radio and submits the matching
// command.
func (c *Controller) ToggleBluetooth() {
	c.mu.Lock()
	c.state.BluetoothEnabled = !c.state.BluetoothEnabled
	status := onOff(c.state.BluetoothEnabled)
	c.mu.Unlock()

	c.sink.Submit("bluetoothctl", "power", status)
	c.notes.Append(fmt.Sprintf("Bluetooth turned %s", status))
	c.recordOp("bluetooth")
}

// SetTimezone submits the timezone change and refreshes the clock.
func (c *Controller) SetTimezone(tz string) {
	c.sink.Submit("timedatectl", "set-timezone", tz)

	c.mu.Lock()
	c.state.Timezone = tz
	c.state.Clock = c.now().Format(clockFormat)
	c.mu.Unlock()

	c.notes.Append(fmt.Sprintf("Timezone set to %s", tz))
	c.recordOp("timezone")
}

// RefreshClock updates the cached clock string. Called once per tick.
func (c *Controller) RefreshClock() {
	c.mu.Lock()
	c.state.Clock = c.now().Format(clockFormat)
	c.mu.Unlock()
}

// ReadClipboard performs a blocking clipboard read.
func (c *Controller) ReadClipboard(ctx context.Context) (string, error) {
	out, err := c.sink.Query(ctx, "wl-paste")
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return out, nil
}

// OpenPackageManager opens the distro's package manager in a terminal.
func (c *Controller) OpenPackageManager() {
	c.mu.RLock()
	distro := c.state.Distro
	c.mu.RUnlock()

	tool := PackageManagerFor(distro)
	c.sink.Submit("wezterm", "start", tool)
	c.notes.Append(fmt.Sprintf("Opened %s", tool))
	c.recordOp("package_manager")
}

// PackageManagerFor maps a distro ID to its package manager tool.
func PackageManagerFor(distro string) string {
	switch distro {
	case "bazzite", "fedora":
		return "dnf"
	case "ubuntu":
		return "apt"
	case "arch":
		return "pacman"
	case "opensuse":
		return "zypper"
	default:
		return "unknown"
	}
}

// Snapshot returns a copy of the current settings state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) recordOp(operation string) {
	if c.metrics != nil {
		c.metrics.RecordSettingsOp(operation)
	}
}

// roundPercent keeps the command and notification aligned with the
// stored level: repeated 0.1 deltas accumulate float error, and
// truncation would report 89% for a level that is effectively 0.9.
func roundPercent(v float64) int {
	return int(math.Round(v * 100))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
