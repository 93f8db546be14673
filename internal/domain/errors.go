package domain

import "errors"

var (
	ErrRateNotFound = errors.New("rate not found")

	ErrConfiguration = errors.New("invalid configuration")
	ErrAPI           = errors.New("evds api request failed")

	ErrInvalidRateType   = errors.New("invalid rate type")
	ErrInvalidMarketType = errors.New("invalid market type")
	ErrInvalidStrategy   = errors.New("invalid null value handling strategy")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrNoCurrencies      = errors.New("at least one currency is required")
	ErrInvalidDateRange  = errors.New("start date must not be after end date")
)
