package stacks

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/contract"
)

const testContractAddress = "ST1B95HGVJ45TG1970HCTCVZMZJYVAMJ4VV8SZGRC"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestCall(t *testing.T) {
	// Given: a node that answers get-latest-game-id with u7
	result, err := clarity.Serialize(clarity.NewUInt(7))
	require.NoError(t, err)

	var gotPath string
	var gotBody callReadRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(callReadResponse{
			Okay:   true,
			Result: "0x" + hex.EncodeToString(result),
		})
	}))
	defer server.Close()

	caller := New(testLogger(), server.URL, testContractAddress)
	c := contract.New(testContractAddress, "tic-tac-toe-v2")

	// When: the call is executed
	v, err := caller.Call(context.Background(), c.GetLatestGameID())

	// Then: the hex result deserializes into the typed value
	require.NoError(t, err)
	u, ok := v.(clarity.UInt)
	require.True(t, ok)
	assert.Equal(t, int64(7), u.N.Int64())

	assert.Equal(t,
		"/v2/contracts/call-read/"+testContractAddress+"/tic-tac-toe-v2/get-latest-game-id",
		gotPath)
	assert.Equal(t, testContractAddress, gotBody.Sender)
	assert.Empty(t, gotBody.Arguments)
}

func TestCall_SerializesArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body callReadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// get-game u3: one hex-encoded uint argument
		require.Len(t, body.Arguments, 1)
		assert.Equal(t, "0x0100000000000000000000000000000003", body.Arguments[0])

		none, _ := clarity.Serialize(clarity.None())
		_ = json.NewEncoder(w).Encode(callReadResponse{Okay: true, Result: "0x" + hex.EncodeToString(none)})
	}))
	defer server.Close()

	caller := New(testLogger(), server.URL, testContractAddress)
	c := contract.New(testContractAddress, "tic-tac-toe-v2")

	v, err := caller.Call(context.Background(), c.GetGame(3))

	require.NoError(t, err)
	opt, ok := v.(clarity.Optional)
	require.True(t, ok)
	assert.True(t, opt.IsNone())
}

func TestCall_Failures(t *testing.T) {
	t.Run("NodeRejects", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(callReadResponse{Okay: false, Cause: "NoSuchContract"})
		}))
		defer server.Close()

		caller := New(testLogger(), server.URL, testContractAddress)
		c := contract.New(testContractAddress, "tic-tac-toe-v2")

		_, err := caller.Call(context.Background(), c.GetLatestGameID())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "NoSuchContract")
	})

	t.Run("HTTPError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		caller := New(testLogger(), server.URL, testContractAddress)
		c := contract.New(testContractAddress, "tic-tac-toe-v2")

		_, err := caller.Call(context.Background(), c.GetLatestGameID())

		require.Error(t, err)
	})

	t.Run("BadResultHex", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(callReadResponse{Okay: true, Result: "0xzz"})
		}))
		defer server.Close()

		caller := New(testLogger(), server.URL, testContractAddress)
		c := contract.New(testContractAddress, "tic-tac-toe-v2")

		_, err := caller.Call(context.Background(), c.GetLatestGameID())

		require.Error(t, err)
	})
}
