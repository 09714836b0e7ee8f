package atlas

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sundialhq/sundial-platform/pkg/mqtt"
	"github.com/sundialhq/sundial-platform/pkg/redis"
)

func TestHandlePinMessage(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	agent.handlePinMessage(&fakeMessage{
		topic:   "atlas/ui/pin/p0530",
		payload: []byte(`{"action":"pin"}`),
	})

	if !agent.state.IsPinned("UTC+05:30") {
		t.Fatal("expected UTC+05:30 to be pinned")
	}
	if !redisClient.hasSetMember(redis.PinsKey(), "UTC+05:30") {
		t.Error("expected pin to be mirrored into Redis")
	}

	// Pinning republishes the zone layer with the pin applied
	payload, retained := mqttClient.lastPayload(mqtt.TopicZones)
	if payload == nil {
		t.Fatal("expected zone state to be republished")
	}
	if !retained {
		t.Error("zone state should be retained")
	}

	var state ZoneState
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatalf("invalid zone payload: %v", err)
	}
	found := false
	for _, zone := range state.Zones {
		if zone.Band == "UTC+05:30" {
			found = true
			if !zone.Pinned {
				t.Error("published zone should be marked pinned")
			}
		}
	}
	if !found {
		t.Error("published zone state missing UTC+05:30")
	}
}

func TestHandleUnpinMessage(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)
	agent.state.Pin("UTC+05:30")
	_ = redisClient.SAdd(context.Background(), redis.PinsKey(), "UTC+05:30")

	agent.handlePinMessage(&fakeMessage{
		topic:   "atlas/ui/pin/p0530",
		payload: []byte(`{"action":"unpin"}`),
	})

	if agent.state.IsPinned("UTC+05:30") {
		t.Error("expected UTC+05:30 to be unpinned")
	}
	if redisClient.hasSetMember(redis.PinsKey(), "UTC+05:30") {
		t.Error("expected pin mirror to be removed")
	}
	if mqttClient.publishCount(mqtt.TopicZones) != 1 {
		t.Error("expected one zone republish after unpin")
	}
}

func TestHandlePinMessageUnknownBand(t *testing.T) {
	agent, mqttClient, _ := newTestAgent(t)

	agent.handlePinMessage(&fakeMessage{
		topic:   "atlas/ui/pin/p1400",
		payload: []byte(`{"action":"pin"}`),
	})

	if len(agent.state.Pins()) != 0 {
		t.Error("unknown band must not be pinned")
	}
	if mqttClient.publishCount(mqtt.TopicZones) != 0 {
		t.Error("unknown band must not trigger a republish")
	}
}

func TestHandlePinMessageInvalidPayload(t *testing.T) {
	agent, mqttClient, _ := newTestAgent(t)

	agent.handlePinMessage(&fakeMessage{
		topic:   "atlas/ui/pin/p0530",
		payload: []byte(`not json`),
	})
	agent.handlePinMessage(&fakeMessage{
		topic:   "atlas/ui/pin/p0530",
		payload: []byte(`{"action":"toggle"}`),
	})

	if len(agent.state.Pins()) != 0 {
		t.Error("invalid commands must not change pin state")
	}
	if mqttClient.publishCount(mqtt.TopicZones) != 0 {
		t.Error("invalid commands must not trigger a republish")
	}
}

func TestPinIsIdempotent(t *testing.T) {
	agent, mqttClient, _ := newTestAgent(t)

	msg := &fakeMessage{topic: "atlas/ui/pin/p0000", payload: []byte(`{"action":"pin"}`)}
	agent.handlePinMessage(msg)
	agent.handlePinMessage(msg)

	if got := len(agent.state.Pins()); got != 1 {
		t.Errorf("expected 1 pin, got %d", got)
	}
	// Second pin is a no-op and must not republish
	if got := mqttClient.publishCount(mqtt.TopicZones); got != 1 {
		t.Errorf("expected 1 zone publish, got %d", got)
	}
}

func TestHandleHighlightMessage(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	agent.handleHighlightMessage(&fakeMessage{
		topic:   mqtt.TopicHighlight,
		payload: []byte("UTC+00:00"),
	})

	if got := agent.state.Highlight(); got != "UTC+00:00" {
		t.Errorf("highlight = %q, want UTC+00:00", got)
	}
	if v, err := redisClient.Get(context.Background(), redis.HighlightKey()); err != nil || v != "UTC+00:00" {
		t.Errorf("highlight mirror = %q, %v", v, err)
	}

	// Empty payload clears the highlight
	agent.handleHighlightMessage(&fakeMessage{
		topic:   mqtt.TopicHighlight,
		payload: []byte(""),
	})
	if got := agent.state.Highlight(); got != "" {
		t.Errorf("highlight = %q after clear, want empty", got)
	}
	if mqttClient.publishCount(mqtt.TopicZones) != 2 {
		t.Error("each highlight change should republish zones")
	}
}

func TestHandleHighlightMessageUnknownBand(t *testing.T) {
	agent, _, _ := newTestAgent(t)

	agent.handleHighlightMessage(&fakeMessage{
		topic:   mqtt.TopicHighlight,
		payload: []byte("UTC+13:00"),
	})

	if got := agent.state.Highlight(); got != "" {
		t.Errorf("unknown band must not be highlighted, got %q", got)
	}
}

func TestHandleSchemeMessage(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	agent.handleSchemeMessage(&fakeMessage{
		topic:   mqtt.TopicSchemeSelect,
		payload: []byte("daynight"),
	})

	if got := agent.state.Scheme(); got != "daynight" {
		t.Errorf("scheme = %q, want daynight", got)
	}
	if v, _ := redisClient.Get(context.Background(), redis.SchemeKey()); v != "daynight" {
		t.Errorf("scheme mirror = %q, want daynight", v)
	}

	payload, _ := mqttClient.lastPayload(mqtt.TopicZones)
	var state ZoneState
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatalf("invalid zone payload: %v", err)
	}
	if state.Scheme != "daynight" {
		t.Errorf("published scheme = %q, want daynight", state.Scheme)
	}
}

func TestHandleSchemeMessageRejectsUnknown(t *testing.T) {
	agent, mqttClient, _ := newTestAgent(t)

	agent.handleSchemeMessage(&fakeMessage{
		topic:   mqtt.TopicSchemeSelect,
		payload: []byte("sepia"),
	})

	if got := agent.state.Scheme(); got != "rainbow" {
		t.Errorf("scheme = %q, want rainbow unchanged", got)
	}
	if mqttClient.publishCount(mqtt.TopicZones) != 0 {
		t.Error("rejected scheme must not republish zones")
	}
}

func TestPublishClocks(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	now := time.Date(2025, 6, 15, 8, 45, 12, 0, time.UTC)
	agent.publishClocks(now)

	for _, band := range agent.bands {
		topic := mqtt.ClockTopic(band.Label)
		payload, retained := mqttClient.lastPayload(topic)
		if payload == nil {
			t.Fatalf("no clock published on %s", topic)
		}
		if !retained {
			t.Errorf("clock on %s should be retained", topic)
		}

		var state ClockState
		if err := json.Unmarshal(payload, &state); err != nil {
			t.Fatalf("invalid clock payload on %s: %v", topic, err)
		}
		if state.Band != band.Label {
			t.Errorf("clock band = %q, want %q", state.Band, band.Label)
		}
		if state.Unix != now.Unix() {
			t.Errorf("clock unix = %d, want %d", state.Unix, now.Unix())
		}

		key := redis.ClockKey(mqtt.BandSegment(band.Label))
		if _, err := redisClient.Get(context.Background(), key); err != nil {
			t.Errorf("clock not cached under %s: %v", key, err)
		}
	}

	// UTC+05:30 at 08:45:12 UTC reads 14:15:12
	payload, _ := mqttClient.lastPayload(mqtt.ClockTopic("UTC+05:30"))
	var state ClockState
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatal(err)
	}
	if state.Time != "14:15:12" {
		t.Errorf("UTC+05:30 time = %q, want 14:15:12", state.Time)
	}
}

func TestPublishTerminator(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	now := time.Date(2025, 3, 22, 12, 0, 0, 0, time.UTC)
	agent.publishTerminator(now)

	payload, retained := mqttClient.lastPayload(mqtt.TopicTerminator)
	if payload == nil {
		t.Fatal("no terminator published")
	}
	if !retained {
		t.Error("terminator should be retained")
	}

	var state TerminatorState
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatalf("invalid terminator payload: %v", err)
	}
	if state.Feature.Geometry.Type != "LineString" {
		t.Errorf("geometry type = %q, want LineString", state.Feature.Geometry.Type)
	}
	if len(state.Feature.Geometry.Coordinates) == 0 {
		t.Error("terminator polyline is empty")
	}
	if len(state.Daylight) != len(agent.bands) {
		t.Errorf("daylight entries = %d, want %d", len(state.Daylight), len(agent.bands))
	}

	if _, err := redisClient.Get(context.Background(), redis.TerminatorKey()); err != nil {
		t.Errorf("terminator not cached: %v", err)
	}
}

func TestPublishZones(t *testing.T) {
	agent, mqttClient, redisClient := newTestAgent(t)

	agent.publishZones(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	payload, _ := mqttClient.lastPayload(mqtt.TopicZones)
	if payload == nil {
		t.Fatal("no zone state published")
	}

	var state ZoneState
	if err := json.Unmarshal(payload, &state); err != nil {
		t.Fatalf("invalid zone payload: %v", err)
	}
	if len(state.Zones) != len(agent.bands) {
		t.Errorf("zones = %d, want %d", len(state.Zones), len(agent.bands))
	}
	if state.Scheme != "rainbow" {
		t.Errorf("scheme = %q, want rainbow", state.Scheme)
	}

	cached, err := redisClient.Get(context.Background(), redis.ZonesKey())
	if err != nil {
		t.Fatalf("zone state not cached: %v", err)
	}
	if cached != string(payload) {
		t.Error("cached zone state differs from published payload")
	}
}

func TestResolveBand(t *testing.T) {
	agent, _, _ := newTestAgent(t)

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"UTC+05:30", "UTC+05:30", true},
		{"p0530", "UTC+05:30", true},
		{"m0930", "UTC-09:30", true},
		{"UTC+00:00", "UTC+00:00", true},
		{"p0000", "UTC+00:00", true},
		{"UTC+13:00", "", false},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		got, ok := agent.resolveBand(tt.key)
		if ok != tt.found || got != tt.want {
			t.Errorf("resolveBand(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.found)
		}
	}
}
