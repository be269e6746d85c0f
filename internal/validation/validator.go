package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered for the order payloads.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterStructValidation(placeOrderStructValidation, PlaceOrderRequest{})
	v.RegisterStructValidation(modifyOrderStructValidation, ModifyOrderRequest{})

	return v
}

func placeOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(PlaceOrderRequest)
	reportSubCentPrices(sl, req.Items)
}

func modifyOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(ModifyOrderRequest)
	// nil means "leave items unchanged"; an explicit empty list is never legal
	if req.Items != nil && len(req.Items) == 0 {
		sl.ReportError(req.Items, "items", "Items", "min", "1")
	}
	reportSubCentPrices(sl, req.Items)
}

// reportSubCentPrices rejects prices finer than one cent. Prices are
// currency values; anything below cent granularity is a client bug, not a
// rounding choice we should make for them.
func reportSubCentPrices(sl validatorv10.StructLevel, items []Item) {
	for i, it := range items {
		cents := it.Price * 100
		if math.Abs(cents-math.Round(cents)) > 1e-6 {
			sl.ReportError(it.Price, fmt.Sprintf("items[%d].price", i), "Price", "cent_precision",
				fmt.Sprintf("%v is finer than cent precision", it.Price))
		}
	}
}
