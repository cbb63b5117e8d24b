package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/0xshikhar/domie-service/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// transferGasLimit 原生转账固定gas
const transferGasLimit = 21000

// Client 托管账户出账客户端
type Client struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainId       *big.Int
	confirmations int
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		client:        client,
		privateKey:    privateKey,
		chainId:       big.NewInt(cfg.ChainId),
		confirmations: cfg.Confirmations,
	}, nil
}

// Transfer 从托管账户发起原生转账，实现 logic.Transferor
func (c *Client) Transfer(ctx context.Context, to string, amount int64) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid recipient address: %s", to)
	}

	from := c.GetAccountAddress()
	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tx := types.NewTransaction(
		nonce,
		common.HexToAddress(to),
		big.NewInt(amount),
		transferGasLimit,
		gasPrice,
		nil,
	)

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainId), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// GetTransactionReceipt 获取交易回执
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
}

// CheckTransaction 检查出账交易状态：是否已确认、是否执行失败、所在区块号
func (c *Client) CheckTransaction(ctx context.Context, txHash string) (confirmed bool, failed bool, blockNum int64, err error) {
	receipt, err := c.GetTransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		// 还在内存池中，等待下一轮巡检
		return false, false, 0, nil
	}
	if err != nil {
		return false, false, 0, err
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return false, true, receipt.BlockNumber.Int64(), nil
	}

	latestBlock, err := c.GetLatestBlock(ctx)
	if err != nil {
		return false, false, 0, err
	}

	confirmed = latestBlock >= receipt.BlockNumber.Uint64()+uint64(c.confirmations)
	return confirmed, false, receipt.BlockNumber.Int64(), nil
}

// GetAccountAddress 获取托管账户地址
func (c *Client) GetAccountAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}
