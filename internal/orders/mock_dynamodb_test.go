package orders

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the orders table. It supports
// the two condition expressions the store uses and a naive customer Query.
// Items are keyed by pk (pk == sk for orders).
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	getCalls int
	putCalls int

	// failPutWith, when set, makes every PutItem return this error.
	failPutWith error
	// failAllWith, when set, makes every call return this error.
	failAllWith error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemString(item map[string]types.AttributeValue, attr string) (string, bool) {
	v, ok := item[attr].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return v.Value, true
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++

	if m.failAllWith != nil {
		return nil, m.failAllWith
	}
	if m.failPutWith != nil {
		return nil, m.failPutWith
	}

	pk, ok := itemString(params.Item, "pk")
	if !ok {
		return nil, errors.New("no pk in put item")
	}

	cond := ""
	if params.ConditionExpression != nil {
		cond = *params.ConditionExpression
	}
	switch cond {
	case "attribute_not_exists(pk)":
		if _, exists := m.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	case "attribute_exists(pk) AND #v = :expected":
		cur, exists := m.items[pk]
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		expected, ok := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
		if !ok {
			return nil, errors.New("missing :expected value")
		}
		curVersion, ok := cur["version"].(*types.AttributeValueMemberN)
		if !ok || curVersion.Value != expected.Value {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++

	if m.failAllWith != nil {
		return nil, m.failAllWith
	}

	pk, ok := itemString(params.Key, "pk")
	if !ok {
		return nil, errors.New("no pk in get key")
	}
	item, ok := m.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAllWith != nil {
		return nil, m.failAllWith
	}

	cid, ok := params.ExpressionAttributeValues[":cid"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :cid value")
	}

	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if v, ok := itemString(item, "customer_id"); ok && v == cid.Value {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}
