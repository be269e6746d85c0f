package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-orders-api/internal/aws"
)

const defaultCallTimeout = 5 * time.Second

// Store encapsulates operations on the orders table. All mutations are
// conditional single-item writes; there is no unconditioned update and no
// delete (cancellation is a status transition, the record stays).
type Store struct {
	client        aws.DynamoDBAPI
	tableName     string
	customerIndex string
	callTimeout   time.Duration
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:        client,
		tableName:     tableName,
		customerIndex: "customer-index",
		callTimeout:   defaultCallTimeout,
	}
}

// Create persists a new order, conditioned on no item existing at its key.
// Returns ErrAlreadyExists on a key collision so the caller can regenerate
// the id instead of silently overwriting.
func (s *Store) Create(ctx context.Context, order Order) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(pk)"),
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return s.mapError(err, ErrAlreadyExists, "create order")
	}
	return nil
}

// Get fetches an order by id with a consistent read, so read-modify-write
// cycles always start from the latest committed version.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	input := &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: OrderPK(orderID)},
			"sk": &types.AttributeValueMemberS{Value: OrderSK(orderID)},
		},
		ConsistentRead: awsBool(true),
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, s.mapError(err, nil, "get order")
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ConditionalUpdate replaces the stored order with newOrder only if the
// stored version still equals expectedVersion. Returns ErrVersionConflict
// when a concurrent mutation got there first (or the item vanished).
func (s *Store) ConditionalUpdate(ctx context.Context, expectedVersion int64, newOrder Order) error {
	item, err := attributevalue.MarshalMap(newOrder)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:                &s.tableName,
		Item:                     item,
		ConditionExpression:      awsString("attribute_exists(pk) AND #v = :expected"),
		ExpressionAttributeNames: map[string]string{"#v": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return s.mapError(err, ErrVersionConflict, "conditional update")
	}
	return nil
}

// QueryByCustomer returns all orders for a customer via the customer-index GSI.
func (s *Store) QueryByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	input := &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              &s.customerIndex,
		KeyConditionExpression: awsString("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, s.mapError(err, nil, "query by customer")
	}

	result := make([]Order, 0, len(out.Items))
	for _, raw := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(raw, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		result = append(result, o)
	}
	return result, nil
}

func (s *Store) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}

// mapError translates DynamoDB failures into the domain taxonomy.
// onConditionFailed is returned for ConditionalCheckFailedException and
// differs per call site (ErrAlreadyExists for create, ErrVersionConflict for
// conditional update).
func (s *Store) mapError(err error, onConditionFailed error, op string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ConditionalCheckFailedException":
			if onConditionFailed != nil {
				return onConditionFailed
			}
		case "ProvisionedThroughputExceededException",
			"ThrottlingException",
			"RequestLimitExceeded",
			"InternalServerError",
			"ServiceUnavailable":
			return fmt.Errorf("%w: %s: %s", ErrUnavailable, op, apiErr.ErrorCode())
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", ErrUnavailable, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
