package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_LABEL_COUNTS_KEY = "sentilex:label_counts"
	VALKEY_RECENT_KEY       = "sentilex:recent"
	VALKEY_DEFAULT_RECENT   = 100
)

type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.Mutex
}

func newValkey(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.InitAddress,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func NewValkeyClient(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = VALKEY_DEFAULT_RECENT
	}

	client, err := newValkey(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.InitAddress))
	return &ValkeyClient{Client: client, cfg: cfg}, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := newValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() error {
	vc.client().Close()
	return nil
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error()
}

// RecordAnalyses bumps the per-label counters and pushes the records onto the
// capped recent list.
func (vc *ValkeyClient) RecordAnalyses(ctx context.Context, records []models.LogRecord) error {
	c := vc.client()

	completed := make([]valkey.Completed, 0, len(records)*2+1)
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("[ValkeyClient] failed to marshal record: %w", err)
		}
		completed = append(completed,
			c.B().Hincrby().Key(VALKEY_LABEL_COUNTS_KEY).Field(rec.Sentiment.String()).Increment(1).Build(),
			c.B().Lpush().Key(VALKEY_RECENT_KEY).Element(string(payload)).Build(),
		)
	}
	completed = append(completed,
		c.B().Ltrim().Key(VALKEY_RECENT_KEY).Start(0).Stop(int64(vc.cfg.RecentLimit-1)).Build())

	responses := vc.DoMultiWithRetry(ctx, completed, 3)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}

	slog.Debug("[ValkeyClient] Recorded analyses",
		slog.Int("records", len(records)))
	return nil
}

// LabelCounts returns the running count of every label recorded so far.
func (vc *ValkeyClient) LabelCounts(ctx context.Context) (map[string]int64, error) {
	c := vc.client()
	res := vc.DoWithRetry(ctx, c.B().Hgetall().Key(VALKEY_LABEL_COUNTS_KEY).Build(), 3)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return nil, err
	}
	return res.AsIntMap()
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	// Commands are recycled after Do unless pinned.
	for i := range completed {
		completed[i] = completed[i].Pin()
	}

	for i := 0; i < retries; i++ {
		results = vc.client().DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	completed = completed.Pin()
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
