package models

import (
	"math/big"
	"time"
)

// FormatRequest asks for one rendering of an input value.
type FormatRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// FormatResult holds one rendering or the reason it failed.
type FormatResult struct {
	Kind   string `json:"kind"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ParseResult holds the numeric value of a shorthand amount.
type ParseResult struct {
	Input string  `json:"input"`
	Value float64 `json:"value"`
	Error string  `json:"error,omitempty"`
}

// GasPriceData contains the current gas price.
type GasPriceData struct {
	Price      *big.Int
	RPCURL     string
	FailedRPCs []string
}

// BalanceData contains the native balance of an address in wei.
type BalanceData struct {
	Address    string
	Balance    *big.Int
	RPCURL     string
	FailedRPCs []string
}

// GasSample is a timestamped gas price in gwei.
type GasSample struct {
	Timestamp time.Time `json:"timestamp"`
	Gwei      float64   `json:"gwei"`
}
