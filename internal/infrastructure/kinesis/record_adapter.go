package kinesis

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Message is one event pulled out of a Kinesis record.
type Message struct {
	Key   []byte
	Value []byte
}

// Handler has the shape of kafka.MessageHandler, so one notification
// handler serves both transports.
type Handler func(ctx context.Context, key, value []byte) error

// ConvertFromKinesisRecord returns the event carried by record, keyed by its
// partition key.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (Message, error) {
	if len(record.Kinesis.Data) == 0 {
		return Message{}, fmt.Errorf("record %s has no data", record.EventID)
	}
	return Message{
		Key:   []byte(record.Kinesis.PartitionKey),
		Value: record.Kinesis.Data,
	}, nil
}

// ProcessBatch runs handler over every record. Failed records are reported by
// sequence number so Lambda retries only those.
func ProcessBatch(ctx context.Context, batch events.KinesisEvent, handler Handler, logger *zap.Logger) events.KinesisEventResponse {
	if logger == nil {
		logger = zap.NewNop()
	}

	var failures []events.KinesisBatchItemFailure
	for _, record := range batch.Records {
		msg, err := ConvertFromKinesisRecord(record)
		if err == nil {
			err = handler(ctx, msg.Key, msg.Value)
		}
		if err != nil {
			logger.Error("failed to process record",
				zap.String("event_id", record.EventID),
				zap.String("sequence_number", record.Kinesis.SequenceNumber),
				zap.Error(err),
			)
			failures = append(failures, events.KinesisBatchItemFailure{
				ItemIdentifier: record.Kinesis.SequenceNumber,
			})
		}
	}

	logger.Info("processed batch",
		zap.Int("records", len(batch.Records)),
		zap.Int("failed", len(failures)),
	)
	return events.KinesisEventResponse{BatchItemFailures: failures}
}
