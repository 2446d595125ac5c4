package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"idcards/internal/card"
)

// testValkey starts an in-memory Valkey and returns a client for it.
func testValkey(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testCard() *card.Card {
	return &card.Card{
		Kind:       card.KindClassic,
		Width:      350,
		Height:     220,
		Background: "#ffffff",
		Nodes: []card.Node{
			{ID: "name", Kind: card.NodeText, Content: "Maria Silva", X: 10, Y: 10, W: 200, H: 20},
		},
	}
}

func TestConnectValkey(t *testing.T) {
	mr, _ := testValkey(t)

	client, err := ConnectValkey(mr.Host(), mr.Port(), "")
	if err != nil {
		t.Fatalf("ConnectValkey: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	mr, _ := testValkey(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	if _, err := ConnectValkey(host, port, ""); err == nil {
		t.Error("expected error for a closed server")
	}
}

func TestCardCacheSetAndGet(t *testing.T) {
	_, client := testValkey(t)
	cc := NewCardCache(client, time.Minute)
	ctx := context.Background()

	key, err := CardKey(testCard(), 3)
	if err != nil {
		t.Fatalf("CardKey: %v", err)
	}

	data, ok := cc.Get(ctx, key)
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	jpeg := []byte{0xff, 0xd8, 0xff, 0xd9}
	cc.Set(ctx, key, jpeg)

	data, ok = cc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(jpeg) {
		t.Errorf("data mismatch: got %x, want %x", data, jpeg)
	}
}

// TestCardCacheExpires checks the configured TTL is applied.
func TestCardCacheExpires(t *testing.T) {
	mr, client := testValkey(t)
	cc := NewCardCache(client, 30*time.Second)
	ctx := context.Background()

	cc.Set(ctx, "k", []byte("jpeg"))
	if ttl := mr.TTL(cardKeyPrefix + "k"); ttl != 30*time.Second {
		t.Errorf("ttl = %v, want 30s", ttl)
	}

	mr.FastForward(31 * time.Second)
	if _, ok := cc.Get(ctx, "k"); ok {
		t.Error("expected miss after expiry")
	}
}

// TestCardKey is stable for equal cards and differs on any visible change.
func TestCardKey(t *testing.T) {
	a, _ := CardKey(testCard(), 3)
	b, _ := CardKey(testCard(), 3)
	if a != b {
		t.Error("equal cards produced different keys")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}

	changed := testCard()
	changed.Nodes[0].Content = "Maria Souza"
	c, _ := CardKey(changed, 3)
	if c == a {
		t.Error("content change did not change the key")
	}

	d, _ := CardKey(testCard(), 2)
	if d == a {
		t.Error("scale change did not change the key")
	}
}

func TestCardCacheInvalidateAll(t *testing.T) {
	mr, client := testValkey(t)
	cc := NewCardCache(client, time.Minute)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		cc.Set(ctx, k, []byte(k))
	}
	if err := mr.Set("session:other", "x"); err != nil {
		t.Fatal(err)
	}

	if n := cc.InvalidateAll(ctx); n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok := cc.Get(ctx, k); ok {
			t.Errorf("expected miss for %q after InvalidateAll", k)
		}
	}
	if !mr.Exists("session:other") {
		t.Error("InvalidateAll removed a key outside the card prefix")
	}
}

// TestCardCacheDownIsMiss treats a failing server as a cache miss.
func TestCardCacheDownIsMiss(t *testing.T) {
	mr, client := testValkey(t)
	cc := NewCardCache(client, time.Minute)
	mr.Close()

	ctx := context.Background()
	cc.Set(ctx, "k", []byte("jpeg"))
	if _, ok := cc.Get(ctx, "k"); ok {
		t.Error("expected miss with server down")
	}
}

func TestNewCardCacheDefaultTTL(t *testing.T) {
	_, client := testValkey(t)
	cc := NewCardCache(client, 0)
	if cc.ttl != DefaultCardTTL {
		t.Errorf("expected DefaultCardTTL (%v), got %v", DefaultCardTTL, cc.ttl)
	}
}
