package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"evmfmt/pkg/models"
	"evmfmt/pkg/numfmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var CallTimeout = 10 * time.Second

var ErrNoEndpoints = errors.New("no RPC URLs given")

// withFailover runs fn against each RPC URL in turn until one succeeds. It
// returns the URL that answered and the ones that failed before it.
func withFailover[T any](ctx context.Context, rpcURLs []string, fn func(context.Context, *ethclient.Client) (T, error)) (T, string, []string, error) {
	var zero T
	var failed []string
	lastErr := ErrNoEndpoints

	for _, rpcURL := range rpcURLs {
		callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
		client, err := ethclient.DialContext(callCtx, rpcURL)
		if err != nil {
			cancel()
			failed = append(failed, rpcURL)
			lastErr = err
			continue
		}
		res, err := fn(callCtx, client)
		client.Close()
		cancel()
		if err != nil {
			failed = append(failed, rpcURL)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return res, rpcURL, failed, nil
	}
	return zero, "", failed, lastErr
}

// FetchGasPrice fetches the suggested gas price in wei.
func FetchGasPrice(ctx context.Context, rpcURLs []string) (models.GasPriceData, error) {
	price, used, failed, err := withFailover(ctx, rpcURLs, func(ctx context.Context, c *ethclient.Client) (*big.Int, error) {
		return c.SuggestGasPrice(ctx)
	})
	if err != nil {
		return models.GasPriceData{FailedRPCs: failed}, err
	}
	return models.GasPriceData{Price: price, RPCURL: used, FailedRPCs: failed}, nil
}

// FetchBalance fetches the latest native balance of address in wei.
func FetchBalance(ctx context.Context, rpcURLs []string, address string) (models.BalanceData, error) {
	if !common.IsHexAddress(address) {
		return models.BalanceData{Address: address}, fmt.Errorf("invalid address %q", address)
	}
	account := common.HexToAddress(address)
	bal, used, failed, err := withFailover(ctx, rpcURLs, func(ctx context.Context, c *ethclient.Client) (*big.Int, error) {
		return c.BalanceAt(ctx, account, nil)
	})
	if err != nil {
		return models.BalanceData{Address: account.Hex(), FailedRPCs: failed}, err
	}
	return models.BalanceData{Address: account.Hex(), Balance: bal, RPCURL: used, FailedRPCs: failed}, nil
}

// FetchTxStatus reports whether a transaction succeeded, failed, or has no
// receipt yet.
func FetchTxStatus(ctx context.Context, rpcURLs []string, txHash string) (numfmt.TxStatus, error) {
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		return numfmt.StatusPending, fmt.Errorf("invalid transaction hash %q", txHash)
	}
	hash := common.BytesToHash(raw)

	status, _, _, err := withFailover(ctx, rpcURLs, func(ctx context.Context, c *ethclient.Client) (numfmt.TxStatus, error) {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return numfmt.StatusPending, nil
		}
		if err != nil {
			return numfmt.StatusPending, err
		}
		if receipt.Status == types.ReceiptStatusSuccessful {
			return numfmt.StatusSuccess, nil
		}
		return numfmt.StatusFailed, nil
	})
	return status, err
}
