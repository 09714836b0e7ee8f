package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sundialhq/sundial-platform/internal/clock"
	"github.com/sundialhq/sundial-platform/internal/colorspace"
	"github.com/sundialhq/sundial-platform/internal/solar"
	"github.com/sundialhq/sundial-platform/internal/tzdata"
	"github.com/sundialhq/sundial-platform/pkg/config"
	"github.com/sundialhq/sundial-platform/pkg/mqtt"
	"github.com/sundialhq/sundial-platform/pkg/postgres"
	"github.com/sundialhq/sundial-platform/pkg/redis"
)

// ClockState is the per-band clock payload published each tick
type ClockState struct {
	clock.Card
	Daylight solar.Daylight `json:"daylight"`
}

// Agent is the atlas agent: it owns the offset bands, recomputes the live
// layers (clocks, terminator, zone colors) on their intervals, publishes
// them over MQTT, mirrors them into Redis, and accepts UI commands.
type Agent struct {
	mqtt   mqtt.Client
	redis  redis.Client
	pg     postgres.Client
	cfg    *config.Config
	logger *slog.Logger

	bands     []tzdata.Band
	bySegment map[string]string // MQTT topic segment -> band label
	byLabel   map[string]tzdata.Band
	palette   *colorspace.Palette

	state    *State
	storage  *Storage
	pinStore *PinStore

	clockTicker      *time.Ticker
	terminatorTicker *time.Ticker
	stopChan         chan struct{}
}

// NewAgent creates a new atlas agent with the given dependencies
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, pgClient postgres.Client, cfg *config.Config, logger *slog.Logger) *Agent {
	agent := &Agent{
		mqtt:      mqttClient,
		redis:     redisClient,
		pg:        pgClient,
		cfg:       cfg,
		logger:    logger,
		bySegment: make(map[string]string),
		byLabel:   make(map[string]tzdata.Band),
		state:     NewState(cfg.ColorScheme),
		storage:   NewStorage(redisClient, logger),
		stopChan:  make(chan struct{}),
	}
	if pgClient != nil {
		agent.pinStore = NewPinStore(pgClient, logger)
	}
	return agent
}

// Start starts the atlas agent and begins publishing map state
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting atlas agent",
		"service_name", a.cfg.ServiceName,
		"mqtt_broker", a.cfg.MQTTAddress(),
		"clock_interval_sec", a.cfg.ClockIntervalSec,
		"terminator_interval_sec", a.cfg.TerminatorIntervalSec,
		"color_scheme", a.cfg.ColorScheme)

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Verify Redis connection
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	// Connect to Postgres and prepare the pin table
	if a.pg != nil {
		if err := a.pg.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if err := a.pinStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure pin schema: %w", err)
		}
	}

	// Load timezone bands
	if err := a.loadBands(ctx); err != nil {
		return err
	}

	// Load optional palette override
	if a.cfg.PalettePath != "" {
		palette, err := colorspace.LoadPalette(a.cfg.PalettePath)
		if err != nil {
			return fmt.Errorf("failed to load palette: %w", err)
		}
		a.palette = palette
		a.logger.Info("Loaded palette override", "palette", palette.Name, "entries", len(palette.Colors))
	}

	// Restore durable pins
	if err := a.restorePins(ctx); err != nil {
		return err
	}

	if err := a.storage.SetScheme(ctx, a.state.Scheme()); err != nil {
		a.logger.Warn("Failed to mirror initial scheme", "error", err)
	}

	// Subscribe to UI command topics
	if err := a.mqtt.Subscribe(mqtt.TopicPinCommands, 0, a.handlePinMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicPinCommands, err)
	}
	if err := a.mqtt.Subscribe(mqtt.TopicHighlight, 0, a.handleHighlightMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicHighlight, err)
	}
	if err := a.mqtt.Subscribe(mqtt.TopicSchemeSelect, 0, a.handleSchemeMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicSchemeSelect, err)
	}

	// Publish the initial state so retained topics are populated before the
	// first tick fires
	now := time.Now()
	a.publishZones(now)
	a.publishTerminator(now)
	a.publishClocks(now)

	a.startClockLoop()
	a.startTerminatorLoop()

	a.logger.Info("Atlas agent started", "bands", len(a.bands))

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Atlas agent stopping")

	return nil
}

// Stop gracefully stops the atlas agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping atlas agent")

	if a.clockTicker != nil {
		a.clockTicker.Stop()
	}
	if a.terminatorTicker != nil {
		a.terminatorTicker.Stop()
	}
	close(a.stopChan)

	a.mqtt.Disconnect()

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	if a.pg != nil {
		if err := a.pg.Disconnect(); err != nil {
			a.logger.Error("Error disconnecting from Postgres", "error", err)
			return err
		}
	}

	a.logger.Info("Atlas agent stopped")
	return nil
}

// loadBands loads the boundary data and groups it into offset bands
func (a *Agent) loadBands(ctx context.Context) error {
	var (
		fc  *tzdata.FeatureCollection
		err error
	)

	if a.cfg.TZDataURL != "" {
		a.logger.Info("Fetching timezone boundaries", "url", a.cfg.TZDataURL)
		fc, err = tzdata.Fetch(ctx, a.cfg.TZDataURL)
	} else {
		a.logger.Info("Loading timezone boundaries", "path", a.cfg.TZDataPath)
		fc, err = tzdata.Load(a.cfg.TZDataPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load timezone data: %w", err)
	}

	bands := tzdata.GroupByOffset(fc, a.logger)
	if len(bands) == 0 {
		return fmt.Errorf("timezone data produced no offset bands")
	}

	a.bands = bands
	for _, band := range bands {
		a.bySegment[mqtt.BandSegment(band.Label)] = band.Label
		a.byLabel[band.Label] = band
	}

	a.logger.Info("Grouped timezone features into offset bands",
		"features", len(fc.Features),
		"bands", len(bands),
		"westmost", bands[0].Label,
		"eastmost", bands[len(bands)-1].Label)

	return nil
}

// restorePins loads durable pins into the in-memory state and Redis mirror
func (a *Agent) restorePins(ctx context.Context) error {
	if a.pinStore == nil {
		return nil
	}

	pins, err := a.pinStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore pins: %w", err)
	}

	restored := 0
	for _, pin := range pins {
		if _, ok := a.byLabel[pin.Band]; !ok {
			a.logger.Warn("Dropping pin for unknown band", "band", pin.Band)
			continue
		}
		a.state.Pin(pin.Band)
		if err := a.storage.AddPin(ctx, pin.Band); err != nil {
			a.logger.Warn("Failed to mirror restored pin", "band", pin.Band, "error", err)
		}
		restored++
	}

	if restored > 0 {
		a.logger.Info("Restored pins from Postgres", "count", restored)
	}
	return nil
}

// startClockLoop starts the periodic clock publish loop
func (a *Agent) startClockLoop() {
	a.clockTicker = time.NewTicker(time.Duration(a.cfg.ClockIntervalSec) * time.Second)

	go func() {
		for {
			select {
			case <-a.clockTicker.C:
				a.publishClocks(time.Now())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// startTerminatorLoop starts the periodic terminator publish loop
func (a *Agent) startTerminatorLoop() {
	a.terminatorTicker = time.NewTicker(time.Duration(a.cfg.TerminatorIntervalSec) * time.Second)

	go func() {
		for {
			select {
			case <-a.terminatorTicker.C:
				a.publishTerminator(time.Now())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// publishClocks publishes one retained clock message per band and mirrors
// each payload into Redis
func (a *Agent) publishClocks(now time.Time) {
	ctx := context.Background()
	cards := clock.Snapshot(a.bands, now)

	for i, card := range cards {
		band := a.bands[i]
		state := ClockState{
			Card:     card,
			Daylight: solar.DaylightAt(now.UTC(), band.RefLat, band.RefLon),
		}

		payload, err := json.Marshal(state)
		if err != nil {
			a.logger.Warn("Failed to marshal clock state", "band", band.Label, "error", err)
			continue
		}

		if err := a.mqtt.Publish(mqtt.ClockTopic(band.Label), 0, true, payload); err != nil {
			a.logger.Warn("Failed to publish clock", "band", band.Label, "error", err)
		}
		if err := a.storage.StoreClock(ctx, band.Label, payload); err != nil {
			a.logger.Warn("Failed to cache clock", "band", band.Label, "error", err)
		}
	}

	a.logger.Debug("Published clock snapshot", "bands", len(cards))
}

// publishTerminator recomputes and publishes the day/night layer
func (a *Agent) publishTerminator(now time.Time) {
	ctx := context.Background()
	state := buildTerminatorState(a.bands, now)

	payload, err := json.Marshal(state)
	if err != nil {
		a.logger.Error("Failed to marshal terminator state", "error", err)
		return
	}

	if err := a.mqtt.Publish(mqtt.TopicTerminator, 0, true, payload); err != nil {
		a.logger.Warn("Failed to publish terminator", "error", err)
	}

	ttl := time.Duration(a.cfg.TerminatorCacheTTLMin) * time.Minute
	if err := a.storage.StoreTerminator(ctx, payload, ttl); err != nil {
		a.logger.Warn("Failed to cache terminator", "error", err)
	}

	a.logger.Debug("Published terminator",
		"points", len(state.Feature.Geometry.Coordinates),
		"declination", state.Declination)
}

// publishZones recomputes and publishes the zone color layer
func (a *Agent) publishZones(now time.Time) {
	ctx := context.Background()
	state := buildZoneState(a.bands, a.state, a.palette, now)

	payload, err := json.Marshal(state)
	if err != nil {
		a.logger.Error("Failed to marshal zone state", "error", err)
		return
	}

	if err := a.mqtt.Publish(mqtt.TopicZones, 0, true, payload); err != nil {
		a.logger.Warn("Failed to publish zone state", "error", err)
	}
	if err := a.storage.StoreZones(ctx, payload); err != nil {
		a.logger.Warn("Failed to cache zone state", "error", err)
	}

	a.logger.Debug("Published zone state", "zones", len(state.Zones), "scheme", state.Scheme)
}

// handlePinMessage handles incoming pin/unpin commands
// Topic pattern: atlas/ui/pin/{band_segment}, payload {"action": "pin"|"unpin"}
func (a *Agent) handlePinMessage(msg mqtt.Message) {
	segment, err := mqtt.SegmentFromTopic(msg.Topic())
	if err != nil {
		a.logger.Warn("Invalid pin topic", "topic", msg.Topic(), "error", err)
		return
	}

	label, ok := a.bySegment[segment]
	if !ok {
		a.logger.Warn("Pin command for unknown band", "segment", segment)
		return
	}

	var cmd struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		a.logger.Warn("Invalid pin command payload", "band", label, "error", err)
		return
	}

	switch cmd.Action {
	case "pin":
		a.pinBand(context.Background(), label)
	case "unpin":
		a.unpinBand(context.Background(), label)
	default:
		a.logger.Warn("Unknown pin action", "band", label, "action", cmd.Action)
	}
}

// handleHighlightMessage handles highlight commands; the payload is a band
// label, or empty to clear the highlight
func (a *Agent) handleHighlightMessage(msg mqtt.Message) {
	label := strings.TrimSpace(string(msg.Payload()))
	if label != "" {
		if _, ok := a.byLabel[label]; !ok {
			a.logger.Warn("Highlight command for unknown band", "band", label)
			return
		}
	}
	a.setHighlight(context.Background(), label)
}

// handleSchemeMessage handles scheme selection commands; the payload is a
// scheme name
func (a *Agent) handleSchemeMessage(msg mqtt.Message) {
	name := strings.TrimSpace(string(msg.Payload()))
	if err := a.switchScheme(context.Background(), name); err != nil {
		a.logger.Warn("Rejected scheme command", "scheme", name, "error", err)
	}
}

// pinBand pins a band, persists the pin, and republishes the zone layer
func (a *Agent) pinBand(ctx context.Context, label string) {
	if !a.state.Pin(label) {
		return
	}

	if a.pinStore != nil {
		if _, err := a.pinStore.Save(ctx, label); err != nil {
			a.logger.Warn("Failed to persist pin", "band", label, "error", err)
		}
	}
	if err := a.storage.AddPin(ctx, label); err != nil {
		a.logger.Warn("Failed to mirror pin", "band", label, "error", err)
	}

	a.logger.Info("Pinned band", "band", label)
	a.publishZones(time.Now())
}

// unpinBand removes a band's pin and republishes the zone layer
func (a *Agent) unpinBand(ctx context.Context, label string) {
	if !a.state.Unpin(label) {
		return
	}

	if a.pinStore != nil {
		if err := a.pinStore.Delete(ctx, label); err != nil {
			a.logger.Warn("Failed to delete durable pin", "band", label, "error", err)
		}
	}
	if err := a.storage.RemovePin(ctx, label); err != nil {
		a.logger.Warn("Failed to remove pin mirror", "band", label, "error", err)
	}

	a.logger.Info("Unpinned band", "band", label)
	a.publishZones(time.Now())
}

// setHighlight updates the highlighted band and republishes the zone layer
func (a *Agent) setHighlight(ctx context.Context, label string) {
	a.state.SetHighlight(label)
	if err := a.storage.SetHighlight(ctx, label); err != nil {
		a.logger.Warn("Failed to mirror highlight", "band", label, "error", err)
	}
	a.publishZones(time.Now())
}

// switchScheme switches the active color scheme and republishes the zone
// layer. Unknown names are rejected rather than silently falling back so a
// UI typo surfaces.
func (a *Agent) switchScheme(ctx context.Context, name string) error {
	if !colorspace.Known(name) {
		return fmt.Errorf("unknown color scheme %q", name)
	}

	a.state.SetScheme(name)
	if err := a.storage.SetScheme(ctx, name); err != nil {
		a.logger.Warn("Failed to mirror scheme", "scheme", name, "error", err)
	}

	a.logger.Info("Switched color scheme", "scheme", name)
	a.publishZones(time.Now())
	return nil
}

// resolveBand resolves a band by canonical label or topic segment
func (a *Agent) resolveBand(key string) (string, bool) {
	if _, ok := a.byLabel[key]; ok {
		return key, true
	}
	if label, ok := a.bySegment[key]; ok {
		return label, true
	}
	return "", false
}
