package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stxplay/tictactoe-client/internal/apperror"
	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/contract"
)

// Bridge forwards call descriptors to an external wallet bridge over HTTP
// and waits for the user's decision. The request deliberately has no client
// timeout: the prompt may sit unanswered for as long as the user likes, and
// cancellation is the caller's ctx.
type Bridge struct {
	logger *slog.Logger
	url    string
	client *http.Client
}

func NewBridge(logger *slog.Logger, url string) *Bridge {
	return &Bridge{
		logger: logger.With("component", "wallet-bridge"),
		url:    url,
		client: &http.Client{},
	}
}

type bridgeRequest struct {
	ContractAddress string   `json:"contract_address"`
	ContractName    string   `json:"contract_name"`
	Function        string   `json:"function"`
	Arguments       []string `json:"arguments"`
}

type bridgeResponse struct {
	TxID  string `json:"txid"`
	Error string `json:"error"`
}

func (that *Bridge) RequestApproval(ctx context.Context, call contract.Call) (*Approval, error) {
	args := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		raw, err := clarity.Serialize(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize call argument: %w", err)
		}
		args = append(args, "0x"+hex.EncodeToString(raw))
	}

	body, err := json.Marshal(bridgeRequest{
		ContractAddress: call.ContractAddress,
		ContractName:    call.ContractName,
		Function:        call.Function,
		Arguments:       args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	var decision bridgeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decision.TxID == "" {
		that.logger.Info("wallet declined call", "function", call.Function, "cause", decision.Error)
		return nil, fmt.Errorf("%w: %s", apperror.ErrApprovalDeclined, decision.Error)
	}

	return &Approval{TxID: decision.TxID}, nil
}
