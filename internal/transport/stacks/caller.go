// Package stacks implements the read-only contract caller against a Stacks
// node's HTTP API.
package stacks

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/contract"
)

const callReadTimeout = 15 * time.Second

// Caller executes read-only calls via POST /v2/contracts/call-read. It does
// not retry: a failed read propagates to the caller, who decides whether to
// re-fetch.
type Caller struct {
	logger  *slog.Logger
	baseURL string
	sender  string
	client  *http.Client
}

func New(logger *slog.Logger, baseURL, sender string) *Caller {
	return &Caller{
		logger:  logger.With("component", "stacks-caller"),
		baseURL: strings.TrimRight(baseURL, "/"),
		sender:  sender,
		client:  &http.Client{Timeout: callReadTimeout},
	}
}

type callReadRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type callReadResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

func (that *Caller) Call(ctx context.Context, call contract.Call) (clarity.Value, error) {
	args := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		raw, err := clarity.Serialize(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize argument for %s: %w", call.Function, err)
		}
		args = append(args, "0x"+hex.EncodeToString(raw))
	}

	body, err := json.Marshal(callReadRequest{Sender: that.sender, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal call-read request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/contracts/call-read/%s/%s/%s",
		that.baseURL, call.ContractAddress, call.ContractName, call.Function)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build call-read request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call-read request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call-read %s returned status %d", call.Function, resp.StatusCode)
	}

	var decoded callReadResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode call-read response: %w", err)
	}

	if !decoded.Okay {
		return nil, fmt.Errorf("call-read %s rejected by node: %s", call.Function, decoded.Cause)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(decoded.Result, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode call-read result hex: %w", err)
	}

	value, err := clarity.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize call-read result: %w", err)
	}

	return value, nil
}
