package cloudwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	maxDataPerRequest = 1000
	putRetries        = 3
	initialBackoff    = 100 * time.Millisecond
)

type Config struct {
	Namespace       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BufferSize      int
	FlushInterval   time.Duration
}

type counterDatum struct {
	name  string
	value float64
	at    time.Time
}

// CounterPublisher буферизует счетчики доски и отправляет их в CloudWatch батчами.
type CounterPublisher struct {
	client    *cloudwatch.Client
	namespace string

	mu         sync.Mutex
	buffer     []counterDatum
	bufferSize int

	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

func NewCounterPublisher(ctx context.Context, cfg Config) (*CounterPublisher, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}

	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}
	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	p := &CounterPublisher{
		client:      cloudwatch.NewFromConfig(awsCfg),
		namespace:   cfg.Namespace,
		buffer:      make([]counterDatum, 0, cfg.BufferSize),
		bufferSize:  cfg.BufferSize,
		flushTicker: time.NewTicker(cfg.FlushInterval),
		stopCh:      make(chan struct{}),
	}

	p.wg.Add(1)
	go p.flushLoop()

	return p, nil
}

func (p *CounterPublisher) Count(ctx context.Context, name string, value float64) error {
	if name == "" {
		return fmt.Errorf("counter name is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = append(p.buffer, counterDatum{name: name, value: value, at: time.Now().UTC()})
	if len(p.buffer) >= p.bufferSize {
		return p.flushLocked(ctx)
	}
	return nil
}

func (p *CounterPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(ctx)
}

// Close останавливает фоновый flush и выталкивает остаток буфера.
func (p *CounterPublisher) Close(ctx context.Context) error {
	close(p.stopCh)
	p.flushTicker.Stop()
	p.wg.Wait()
	return p.Flush(ctx)
}

func (p *CounterPublisher) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_ = p.Flush(ctx)
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

func (p *CounterPublisher) flushLocked(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(p.buffer))
	for _, d := range p.buffer {
		data = append(data, types.MetricDatum{
			MetricName: aws.String(d.name),
			Value:      aws.Float64(d.value),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(d.at),
		})
	}

	for i := 0; i < len(data); i += maxDataPerRequest {
		end := i + maxDataPerRequest
		if end > len(data) {
			end = len(data)
		}
		if err := p.putWithRetry(ctx, data[i:end]); err != nil {
			return fmt.Errorf("failed to publish counters: %w", err)
		}
	}

	p.buffer = p.buffer[:0]
	return nil
}

func (p *CounterPublisher) putWithRetry(ctx context.Context, data []types.MetricDatum) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < putRetries; attempt++ {
		_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data,
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < putRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", putRetries, lastErr)
}
