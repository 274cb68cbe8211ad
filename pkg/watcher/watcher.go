package watcher

import (
	"context"
	"errors"
	"time"

	"evmfmt/pkg/models"
	"evmfmt/pkg/numfmt"
	"evmfmt/pkg/rpc"

	"github.com/rs/zerolog"
)

// DataSource defines the interface for fetching gas prices.
type DataSource interface {
	FetchGasPrice(ctx context.Context, rpcURLs []string) (models.GasPriceData, error)
}

// RealDataSource implements DataSource using the rpc package.
type RealDataSource struct{}

func (d *RealDataSource) FetchGasPrice(ctx context.Context, rpcURLs []string) (models.GasPriceData, error) {
	return rpc.FetchGasPrice(ctx, rpcURLs)
}

// GasSampler polls the gas price at a fixed interval.
type GasSampler struct {
	rpcURLs    []string
	interval   time.Duration
	dataSource DataSource
	logger     zerolog.Logger
	now        func() time.Time
}

// NewGasSampler creates a sampler for the given endpoints.
func NewGasSampler(rpcURLs []string, interval time.Duration) *GasSampler {
	return &GasSampler{
		rpcURLs:    rpcURLs,
		interval:   interval,
		dataSource: &RealDataSource{},
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
}

// SetDataSource allows overriding the data source (useful for testing).
func (s *GasSampler) SetDataSource(ds DataSource) {
	s.dataSource = ds
}

func (s *GasSampler) SetLogger(l zerolog.Logger) {
	s.logger = l
}

// Sample collects n gas price readings, waiting interval between them.
// Failed readings are logged and skipped. It returns what it collected so
// far together with ctx.Err() when ctx ends early, and the last fetch
// error when no reading succeeded.
func (s *GasSampler) Sample(ctx context.Context, n int) ([]models.GasSample, error) {
	samples := make([]models.GasSample, 0, n)
	var lastErr error

	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()

	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return samples, ctx.Err()
			}
		}

		data, err := s.dataSource.FetchGasPrice(ctx, s.rpcURLs)
		if err != nil {
			lastErr = err
			s.logger.Warn().Err(err).Int("sample", i).Msg("gas price fetch failed")
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return samples, err
			}
			continue
		}
		if len(data.FailedRPCs) > 0 {
			s.logger.Debug().Strs("failed_rpcs", data.FailedRPCs).Str("rpc", data.RPCURL).Msg("gas price served after failover")
		}
		samples = append(samples, models.GasSample{
			Timestamp: s.now(),
			Gwei:      numfmt.WeiToGwei(data.Price),
		})
	}

	if len(samples) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return samples, nil
}

func (s *GasSampler) tickInterval() time.Duration {
	if s.interval <= 0 {
		return time.Millisecond
	}
	return s.interval
}

// Values returns the gwei readings of samples in order.
func Values(samples []models.GasSample) []float64 {
	out := make([]float64, len(samples))
	for i, smp := range samples {
		out[i] = smp.Gwei
	}
	return out
}
