// Package artifact turns transient chart-rendering URLs into durable,
// publicly resolvable ones. Failures stay local: the persister reports an
// explicit error and the caller chooses to continue without a chart.
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxChartBytes bounds the fetched image size.
const maxChartBytes = 8 << 20

// Persister fetches a rendered chart and uploads it to durable storage.
type Persister struct {
	store  ObjectStore
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

type PersisterOption func(*Persister)

// WithHTTPClient overrides the client used to fetch the rendered chart.
func WithHTTPClient(client *http.Client) PersisterOption {
	return func(p *Persister) {
		p.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) PersisterOption {
	return func(p *Persister) {
		p.logger = logger
	}
}

// WithClock overrides the clock used to derive filenames.
func WithClock(now func() time.Time) PersisterOption {
	return func(p *Persister) {
		p.now = now
	}
}

// NewPersister creates a persister backed by the given store.
func NewPersister(store ObjectStore, opts ...PersisterOption) *Persister {
	p := &Persister{
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Persist fetches the bytes behind the transient chart URL, uploads them
// under a time-keyed filename, and returns the stable public URL. It is
// invoked at most once per session and only when a chart reference was
// extracted. Any failure is returned to the caller, which decides to
// degrade; nothing here aborts the wider pipeline.
func (p *Persister) Persist(ctx context.Context, chartURL string) (string, error) {
	data, err := p.fetch(ctx, chartURL)
	if err != nil {
		return "", fmt.Errorf("fetch chart: %w", err)
	}

	name := fmt.Sprintf("chart_%d", p.now().Unix())
	if err := p.store.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("upload chart: %w", err)
	}

	stableURL := p.store.URL(name)
	p.logger.Debug("chart persisted",
		zap.String("name", name),
		zap.String("url", stableURL),
		zap.Int("bytes", len(data)))
	return stableURL, nil
}

func (p *Persister) fetch(ctx context.Context, chartURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxChartBytes))
}
