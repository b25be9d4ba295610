package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/artcollab/drawgrid/internal/application/port"
)

const (
	attrObjectKey  = "object_key"
	attrReason     = "reason"
	attrUploadedAt = "uploaded_at_ms"

	defaultScanLimit = 50
)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// OrphanLedger хранит ключи осиротевших загрузок в DynamoDB-совместимой таблице.
// Партиционный ключ — object_key; этого достаточно, журнал маленький.
type OrphanLedger struct {
	client    *dynamodb.Client
	tableName string
}

func NewOrphanLedger(ctx context.Context, cfg Config) (*OrphanLedger, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, fmt.Errorf("dynamodb region is required")
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
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &OrphanLedger{
		client:    client,
		tableName: strings.TrimSpace(cfg.TableName),
	}, nil
}

func (l *OrphanLedger) Record(ctx context.Context, orphan port.OrphanUpload) error {
	if strings.TrimSpace(orphan.Key) == "" {
		return fmt.Errorf("orphan object key is required")
	}

	uploadedAt := orphan.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	item := map[string]types.AttributeValue{
		attrObjectKey:  &types.AttributeValueMemberS{Value: orphan.Key},
		attrUploadedAt: &types.AttributeValueMemberN{Value: strconv.FormatInt(uploadedAt.UnixMilli(), 10)},
	}
	if orphan.Reason != "" {
		item[attrReason] = &types.AttributeValueMemberS{Value: orphan.Reason}
	}

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put orphan record: %w", err)
	}

	return nil
}

func (l *OrphanLedger) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]port.OrphanUpload, error) {
	if limit <= 0 || limit > defaultScanLimit {
		limit = defaultScanLimit
	}

	// Полный Scan допустим: журнал живет короткими эпизодами и чистится уборщиком.
	output, err := l.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(l.tableName),
		FilterExpression: aws.String("#ts <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#ts": attrUploadedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cutoff": &types.AttributeValueMemberN{Value: strconv.FormatInt(cutoff.UnixMilli(), 10)},
		},
		Limit: aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan orphan records: %w", err)
	}

	orphans := make([]port.OrphanUpload, 0, len(output.Items))
	for _, item := range output.Items {
		orphan := port.OrphanUpload{}

		if v, ok := item[attrObjectKey].(*types.AttributeValueMemberS); ok {
			orphan.Key = v.Value
		}
		if orphan.Key == "" {
			continue
		}
		if v, ok := item[attrReason].(*types.AttributeValueMemberS); ok {
			orphan.Reason = v.Value
		}
		if v, ok := item[attrUploadedAt].(*types.AttributeValueMemberN); ok {
			if ms, parseErr := strconv.ParseInt(v.Value, 10, 64); parseErr == nil {
				orphan.UploadedAt = time.UnixMilli(ms).UTC()
			}
		}

		orphans = append(orphans, orphan)
	}

	return orphans, nil
}

func (l *OrphanLedger) Remove(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("orphan object key is required")
	}

	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			attrObjectKey: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete orphan record: %w", err)
	}

	return nil
}
