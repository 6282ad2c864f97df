package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/jackcoin/app/services/node/handlers"
	"github.com/ardanlabs/jackcoin/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/state"
	"github.com/ardanlabs/jackcoin/foundation/events"
	"github.com/ardanlabs/jackcoin/foundation/nameservice"
	"github.com/stretchr/testify/assert"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	k1HexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	k2HexKey = "aed31b6b5a341af8f27e66fb0b7633cf20fc27049e3eb7f6f623a4655b719ebb"
)

type accounts struct {
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Accounts    []struct {
		Account string `json:"account"`
		Name    string `json:"name"`
		Balance int64  `json:"balance"`
	} `json:"accounts"`
}

type block struct {
	Number uint64 `json:"number"`
	Hash   string `json:"hash"`
	Trans  []struct {
		Reward bool   `json:"reward"`
		From   string `json:"from"`
		To     string `json:"to"`
		Value  uint64 `json:"value"`
	} `json:"trans"`
}

func Test_PublicAPI(t *testing.T) {
	mux, k1, k2 := newMux(t)
	k1ID := k1.PublicID()
	k2ID := k2.PublicID()

	t.Log("Given the need to drive the ledger through the public API.")
	{
		tx := database.NewTx(database.AccountID(k1ID), database.AccountID(k2ID), 10)
		require.NoError(t, tx.Sign(k1))

		w := call(t, mux, http.MethodPost, "/v1/tx/submit", public.SubmitTx{
			From:  k1ID,
			To:    k2ID,
			Value: 10,
			Sig:   tx.SignatureString(),
		})
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to submit a signed transaction: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould be able to submit a signed transaction.", success)

		w = call(t, mux, http.MethodGet, "/v1/tx/uncommitted/list", nil)
		var mempool []json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mempool))
		if len(mempool) != 1 {
			t.Fatalf("\t%s\tShould list the pending transaction, got %d.", failed, len(mempool))
		}
		t.Logf("\t%s\tShould list the pending transaction.", success)

		w = call(t, mux, http.MethodPost, "/v1/mine", public.MineRequest{Beneficiary: k1ID})
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine: %d %s", failed, w.Code, w.Body)
		}
		var mined block
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mined))
		if mined.Number != 1 || len(mined.Trans) != 2 || !mined.Trans[1].Reward {
			t.Fatalf("\t%s\tShould mine block 1 with the transaction and reward: %+v", failed, mined)
		}
		t.Logf("\t%s\tShould mine block 1 with the transaction and reward.", success)

		w = call(t, mux, http.MethodGet, "/v1/accounts/list", nil)
		var acts accounts
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acts))
		balances := make(map[string]int64)
		for _, act := range acts.Accounts {
			balances[act.Account] = act.Balance
		}
		if balances[k1ID] != 90 || balances[k2ID] != 10 {
			t.Fatalf("\t%s\tShould report balances of 90 and 10: %v", failed, balances)
		}
		assert.Equal(t, mined.Hash, acts.LatestBlock)
		assert.Equal(t, 0, acts.Uncommitted)
		t.Logf("\t%s\tShould report balances of 90 and 10.", success)

		w = call(t, mux, http.MethodGet, "/v1/accounts/list/"+k2ID, nil)
		acts = accounts{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acts))
		if len(acts.Accounts) != 1 || acts.Accounts[0].Name != "kennedy" {
			t.Fatalf("\t%s\tShould report a single named account: %+v", failed, acts)
		}
		t.Logf("\t%s\tShould report a single named account.", success)

		w = call(t, mux, http.MethodGet, "/v1/blocks/hash/"+mined.Hash, nil)
		var found block
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
		if w.Code != http.StatusOK || found.Hash != mined.Hash || found.Number != 1 {
			t.Fatalf("\t%s\tShould find the block by hash: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould find the block by hash.", success)

		w = call(t, mux, http.MethodGet, "/v1/blocks/hash/"+signature.ZeroHash, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("\t%s\tShould not find an unknown hash: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould not find an unknown hash.", success)

		w = call(t, mux, http.MethodGet, "/v1/blocks/list/"+k2ID, nil)
		var blocks []block
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocks))
		if len(blocks) != 1 || blocks[0].Hash != mined.Hash {
			t.Fatalf("\t%s\tShould list the blocks for an account: %s", failed, w.Body)
		}
		t.Logf("\t%s\tShould list the blocks for an account.", success)

		w = call(t, mux, http.MethodGet, "/v1/chain/validate", nil)
		var status struct {
			Valid  bool `json:"valid"`
			Blocks int  `json:"blocks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		if !status.Valid || status.Blocks != 2 {
			t.Fatalf("\t%s\tShould report a valid chain: %s", failed, w.Body)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)
	}
}

func Test_PublicAPIRejections(t *testing.T) {
	mux, k1, k2 := newMux(t)

	tx := database.NewTx(database.AccountID(k1.PublicID()), database.AccountID(k2.PublicID()), 10)
	require.NoError(t, tx.Sign(k1))

	tt := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"missing-fields", http.MethodPost, "/v1/tx/submit", public.SubmitTx{Value: 10}, http.StatusBadRequest},
		{"bad-account", http.MethodPost, "/v1/tx/submit", public.SubmitTx{From: "bill", To: k2.PublicID(), Sig: tx.SignatureString()}, http.StatusBadRequest},
		{"wrong-value", http.MethodPost, "/v1/tx/submit", public.SubmitTx{From: k1.PublicID(), To: k2.PublicID(), Value: 20, Sig: tx.SignatureString()}, http.StatusBadRequest},
		{"short-sig", http.MethodPost, "/v1/tx/submit", public.SubmitTx{From: k1.PublicID(), To: k2.PublicID(), Value: 10, Sig: "0x0102"}, http.StatusBadRequest},
		{"no-beneficiary", http.MethodPost, "/v1/mine", public.MineRequest{}, http.StatusBadRequest},
		{"bad-account-list", http.MethodGet, "/v1/accounts/list/bill", nil, http.StatusBadRequest},
	}

	t.Log("Given the need to reject bad requests.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				w := call(t, mux, tst.method, tst.path, tst.body)
				if w.Code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould get a %d status, got %d: %s", failed, testID, tst.status, w.Code, w.Body)
				}
				t.Logf("\t%s\tTest %d:\tShould get a %d status.", success, testID, tst.status)

				var er struct {
					Error string `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Error == "" {
					t.Fatalf("\t%s\tTest %d:\tShould get an error document: %s", failed, testID, w.Body)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_DebugMux(t *testing.T) {
	st, err := state.New(state.Config{Genesis: genesis.Default()})
	require.NoError(t, err)
	defer st.Shutdown()

	mux := handlers.DebugMux("test", zap.NewNop().Sugar(), st)

	for _, path := range []string{"/debug/readiness", "/debug/liveness", "/debug/vars"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

// =============================================================================

// node is the public mux plus the pieces a test needs to watch.
type node struct {
	mux      http.Handler
	shutdown chan os.Signal
	evts     *events.Events
}

func Test_EventsClientDisconnect(t *testing.T) {
	n, _, _ := newNode(t)

	srv := httptest.NewServer(n.mux)
	defer srv.Close()

	t.Log("Given the need to keep the node running when an events client goes away.")
	{
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events"

		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to connect to the events stream: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to connect to the events stream.", success)

		require.Eventually(t, func() bool { return n.evts.Count() == 1 }, 5*time.Second, 10*time.Millisecond)

		n.evts.Send("state: first event")
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "state: first event", string(msg))

		c.Close()

		// Keep sending until the failed write releases the receiver.
		released := func() bool {
			n.evts.Send("state: event after close")
			return n.evts.Count() == 0
		}
		if !assert.Eventually(t, released, 5*time.Second, 10*time.Millisecond) {
			t.Fatalf("\t%s\tShould release the receiver once the client is gone.", failed)
		}
		t.Logf("\t%s\tShould release the receiver once the client is gone.", success)

		if len(n.shutdown) != 0 {
			t.Fatalf("\t%s\tShould not signal a shutdown of the node.", failed)
		}
		t.Logf("\t%s\tShould not signal a shutdown of the node.", success)
	}
}

func newMux(t *testing.T) (http.Handler, signature.Key, signature.Key) {
	t.Helper()

	n, k1, k2 := newNode(t)
	return n.mux, k1, k2
}

func newNode(t *testing.T) (node, signature.Key, signature.Key) {
	t.Helper()

	k1, err := signature.HexToKey(k1HexKey)
	require.NoError(t, err)

	k2, err := signature.HexToKey(k2HexKey)
	require.NoError(t, err)

	folder := t.TempDir()
	require.NoError(t, k2.Save(folder+"/kennedy"+nameservice.KeyExtension))

	ns, err := nameservice.New(folder)
	require.NoError(t, err)

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Date:         time.Now().UTC(),
			Difficulty:   1,
			MiningReward: 100,
			Payload:      genesis.DefaultPayload,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Shutdown() })

	evts := events.New()
	t.Cleanup(evts.Shutdown)

	shutdown := make(chan os.Signal, 1)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:    shutdown,
		Log:         zap.NewNop().Sugar(),
		State:       st,
		NS:          ns,
		Evts:        evts,
		MineTimeout: time.Minute,
	})

	return node{mux: mux, shutdown: shutdown, evts: evts}, k1, k2
}

func call(t *testing.T, mux http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, &buf))

	return w
}
