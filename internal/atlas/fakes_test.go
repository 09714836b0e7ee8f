package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sundialhq/sundial-platform/internal/tzdata"
	"github.com/sundialhq/sundial-platform/pkg/config"
	"github.com/sundialhq/sundial-platform/pkg/mqtt"
)

type publishRecord struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeMQTT records published messages and registered subscriptions
type fakeMQTT struct {
	mu        sync.Mutex
	connected bool
	published []publishRecord
	handlers  map[string]mqtt.MessageHandler
}

func newFakeMQTT() *fakeMQTT {
	return &fakeMQTT{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeMQTT) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *fakeMQTT) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = handler
	return nil
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishRecord{topic: topic, retained: retained, payload: payload})
	return nil
}

func (f *fakeMQTT) PublishJSON(topic string, qos byte, retained bool, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.Publish(topic, qos, retained, payload)
}

func (f *fakeMQTT) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// lastPayload returns the most recent payload published to a topic
func (f *fakeMQTT) lastPayload(topic string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.published) - 1; i >= 0; i-- {
		if f.published[i].topic == topic {
			return f.published[i].payload, f.published[i].retained
		}
	}
	return nil, false
}

func (f *fakeMQTT) publishCount(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, rec := range f.published {
		if rec.topic == topic {
			count++
		}
	}
	return count
}

// fakeRedis is an in-memory stand-in for the Redis client
type fakeRedis struct {
	mu     sync.Mutex
	kv     map[string]string
	sets   map[string]map[string]struct{}
	hashes map[string]map[string]string
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		kv:     make(map[string]string),
		sets:   make(map[string]map[string]struct{}),
		hashes: make(map[string]map[string]string),
	}
}

func redisString(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kv[key] = redisString(value)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.kv[key]
	if !ok {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.kv, key)
		delete(f.sets, key)
		delete(f.hashes, key)
	}
	return nil
}

func (f *fakeRedis) HSet(ctx context.Context, key string, field string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	f.hashes[key][field] = redisString(value)
	return nil
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRedis) SAdd(ctx context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]struct{})
	}
	for _, m := range members {
		f.sets[key][redisString(m)] = struct{}{}
	}
	return nil
}

func (f *fakeRedis) SRem(ctx context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range members {
		delete(f.sets[key], redisString(m))
	}
	return nil
}

func (f *fakeRedis) SMembers(ctx context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []string
	for m := range f.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func (f *fakeRedis) Ping(ctx context.Context) error {
	return nil
}

func (f *fakeRedis) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRedis) hasSetMember(key, member string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sets[key][member]
	return ok
}

// fakeMessage implements mqtt.Message for handler tests
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Ack()            {}

func testBands() []tzdata.Band {
	return []tzdata.Band{
		{Label: "UTC-09:30", OffsetMinutes: -570, RefLon: -142.5, RefLat: -9.5},
		{Label: "UTC+00:00", OffsetMinutes: 0, RefLon: 0, RefLat: 51.5},
		{Label: "UTC+05:30", OffsetMinutes: 330, RefLon: 82.5, RefLat: 21.0},
	}
}

// newTestAgent builds an agent wired to fakes, with bands installed as if
// loadBands had run, and no Postgres
func newTestAgent(t *testing.T) (*Agent, *fakeMQTT, *fakeRedis) {
	t.Helper()

	cfg := config.NewConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mqttClient := newFakeMQTT()
	redisClient := newFakeRedis()

	agent := NewAgent(mqttClient, redisClient, nil, cfg, logger)
	agent.bands = testBands()
	for _, band := range agent.bands {
		agent.bySegment[mqtt.BandSegment(band.Label)] = band.Label
		agent.byLabel[band.Label] = band
	}

	return agent, mqttClient, redisClient
}
