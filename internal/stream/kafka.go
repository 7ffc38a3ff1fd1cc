package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rickgao/stockprice-etl/internal/config"
	"github.com/rickgao/stockprice-etl/internal/model"
)

// ErrUnknownTopic is returned when the source topic does not exist.
var ErrUnknownTopic = errors.New("unknown topic")

// KafkaSource consumes every partition of a topic directly, without a
// consumer group. Positions come from the checkpoint, so the broker never
// stores offsets for this client.
type KafkaSource struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaSource discovers the partitions of cfg.Topic and starts consuming
// each one at its checkpointed offset, or at cfg.StartingOffsets when none is
// recorded.
func NewKafkaSource(ctx context.Context, cfg config.KafkaConfig, clientID string, offsets map[int32]int64, logger *slog.Logger) (*KafkaSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	partitions, err := discoverPartitions(ctx, cfg, clientID)
	if err != nil {
		return nil, err
	}

	start := startOffsets(partitions, offsets, cfg.StartingOffsets)

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{cfg.Topic: start}),
	}
	if cfg.FetchMaxWait > 0 {
		opts = append(opts, kgo.FetchMaxWait(cfg.FetchMaxWait))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	for _, p := range partitions {
		if off, ok := offsets[p]; ok {
			logger.Info("resuming partition", "topic", cfg.Topic, "partition", p, "offset", off)
		} else {
			logger.Info("starting partition", "topic", cfg.Topic, "partition", p, "from", cfg.StartingOffsets)
		}
	}

	return &KafkaSource{
		client: client,
		topic:  cfg.Topic,
		logger: logger,
	}, nil
}

// discoverPartitions lists the partitions of the topic with a short-lived
// admin client. It fails when the brokers are unreachable or the topic is
// unknown.
func discoverPartitions(ctx context.Context, cfg config.KafkaConfig, clientID string) ([]int32, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID+"-admin"),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka admin client: %w", err)
	}
	defer cl.Close()

	adm := kadm.NewClient(cl)
	details, err := adm.ListTopics(ctx, cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("list topic %s: %w", cfg.Topic, err)
	}

	td, ok := details[cfg.Topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, cfg.Topic)
	}
	if td.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownTopic, cfg.Topic, td.Err)
	}

	partitions := make([]int32, 0, len(td.Partitions))
	for p := range td.Partitions {
		partitions = append(partitions, p)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i] < partitions[j] })
	if len(partitions) == 0 {
		return nil, fmt.Errorf("%w: %s has no partitions", ErrUnknownTopic, cfg.Topic)
	}
	return partitions, nil
}

// startOffsets picks the first offset to consume for each partition.
func startOffsets(partitions []int32, checkpointed map[int32]int64, starting string) map[int32]kgo.Offset {
	start := make(map[int32]kgo.Offset, len(partitions))
	for _, p := range partitions {
		switch off, ok := checkpointed[p]; {
		case ok:
			start[p] = kgo.NewOffset().At(off)
		case starting == config.OffsetsLatest:
			start[p] = kgo.NewOffset().AtEnd()
		default:
			start[p] = kgo.NewOffset().AtStart()
		}
	}
	return start
}

// Poll returns up to max records.
func (s *KafkaSource) Poll(ctx context.Context, max int) ([]model.RawMessage, error) {
	fetches := s.client.PollRecords(ctx, max)
	if fetches.IsClientClosed() {
		return nil, kgo.ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, fe := range fetches.Errors() {
		if errors.Is(fe.Err, context.Canceled) || errors.Is(fe.Err, context.DeadlineExceeded) {
			continue
		}
		return nil, fmt.Errorf("fetch %s[%d]: %w", fe.Topic, fe.Partition, fe.Err)
	}

	msgs := make([]model.RawMessage, 0, fetches.NumRecords())
	fetches.EachRecord(func(r *kgo.Record) {
		msgs = append(msgs, model.RawMessage{
			Topic:     r.Topic,
			Partition: r.Partition,
			Offset:    r.Offset,
			Key:       r.Key,
			Value:     r.Value,
			Timestamp: r.Timestamp,
		})
	})
	return msgs, nil
}

// Close closes the client.
func (s *KafkaSource) Close() {
	s.client.Close()
	s.logger.Debug("kafka source closed", "topic", s.topic)
}
