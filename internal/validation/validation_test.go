package validation

import "testing"

func TestPlaceOrderRequest_Valid(t *testing.T) {
	v := New()

	req := PlaceOrderRequest{
		CustomerID: "cust-123",
		Items: []Item{
			{SKU: "sku-1", Quantity: 2, Price: 10.00},
			{SKU: "sku-2", Quantity: 1, Price: 5.50},
		},
		Metadata: map[string]interface{}{"note": "test"},
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestPlaceOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := PlaceOrderRequest{
		// CustomerID missing
		Items: []Item{},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestPlaceOrderRequest_BadItems(t *testing.T) {
	v := New()

	cases := []struct {
		name string
		item Item
	}{
		{"zero quantity", Item{SKU: "sku-1", Quantity: 0, Price: 1.00}},
		{"negative price", Item{SKU: "sku-1", Quantity: 1, Price: -1.00}},
		{"missing sku", Item{Quantity: 1, Price: 1.00}},
		{"sub-cent price", Item{SKU: "sku-1", Quantity: 1, Price: 0.001}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := PlaceOrderRequest{CustomerID: "cust-1", Items: []Item{tc.item}}
			if err := v.Struct(req); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestModifyOrderRequest_OmittedItemsIsValid(t *testing.T) {
	v := New()

	req := ModifyOrderRequest{
		Metadata: map[string]interface{}{"gift": true},
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestModifyOrderRequest_EmptyItemsIsInvalid(t *testing.T) {
	v := New()

	req := ModifyOrderRequest{Items: []Item{}}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for empty item list")
	}
}

func TestModifyOrderRequest_SubCentPrice(t *testing.T) {
	v := New()

	req := ModifyOrderRequest{Items: []Item{{SKU: "sku-1", Quantity: 1, Price: 9.999}}}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for sub-cent price")
	}
}
