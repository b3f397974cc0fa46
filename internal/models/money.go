package models

import "github.com/shopspring/decimal"

func init() {
	// prices travel as JSON numbers, like the public site expects
	decimal.MarshalJSONWithoutQuotes = true
}
