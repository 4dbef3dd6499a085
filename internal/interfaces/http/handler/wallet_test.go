package handler

import (
	"net/http"
	"testing"

	appwallet "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceOf(t *testing.T, s *testServer, customerID string) string {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/v1/wallets/"+customerID+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance appwallet.BalanceResponse
	envelope(t, w, &balance)
	return balance.Balance.String()
}

func TestWalletHandler_CreditAndDebit(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, "0", balanceOf(t, s, "C1"), "unknown customers have a zero balance")

	w := s.do(t, http.MethodPost, "/api/v1/wallets/C1/credit", map[string]any{
		"amount": "100.00", "type": "cashback", "reference_id": "S1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var credit appwallet.TransactionResponse
	envelope(t, w, &credit)
	assert.Equal(t, "cashback", credit.Type)
	assert.Equal(t, "100", credit.BalanceAfter.String())
	assert.Equal(t, "S1", *credit.ReferenceID)

	w = s.do(t, http.MethodPost, "/api/v1/wallets/C1/debit", map[string]any{"amount": "30", "description": "checkout"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var debit appwallet.TransactionResponse
	envelope(t, w, &debit)
	assert.Equal(t, "debit", debit.Type)
	assert.Equal(t, "-30", debit.Amount.String())
	assert.Equal(t, "70", debit.BalanceAfter.String())

	assert.Equal(t, "70", balanceOf(t, s, "C1"))
}

func TestWalletHandler_InsufficientBalance(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/wallets/C1/credit", map[string]any{"amount": "10"}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/wallets/C1/debit", map[string]any{"amount": "10.01"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientBalance, errorCode(t, w))
	assert.Equal(t, "10", balanceOf(t, s, "C1"), "a rejected debit leaves the balance untouched")

	w = s.do(t, http.MethodPost, "/api/v1/wallets/C2/debit", map[string]any{"amount": "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "customers without a wallet cannot be debited")
}

func TestWalletHandler_DebitWholeBalance(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/wallets/C1/credit", map[string]any{"amount": "25.50"}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/wallets/C1/debit", map[string]any{"amount": "25.50"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", balanceOf(t, s, "C1"))
}

func TestWalletHandler_AmountValidation(t *testing.T) {
	s := newTestServer(t)

	for _, amount := range []string{"0", "-5"} {
		for _, op := range []string{"credit", "debit"} {
			w := s.do(t, http.MethodPost, "/api/v1/wallets/C1/"+op, map[string]any{"amount": amount})
			assert.Equal(t, http.StatusBadRequest, w.Code, op+" "+amount)
			assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
		}
	}

	w := s.do(t, http.MethodPost, "/api/v1/wallets/C1/credit", map[string]any{"amount": "5", "type": "debit"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "debit is not a credit type")
}

func TestWalletHandler_TransactionsAndSummary(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []map[string]any{
		{"amount": "50", "type": "cashback"},
		{"amount": "20", "type": "refund"},
		{"amount": "30"},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/wallets/C1/credit", body).Code)
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/wallets/C1/debit", map[string]any{"amount": "40"}).Code)

	t.Run("all, newest first", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/wallets/C1/transactions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var txs []appwallet.TransactionResponse
		resp := envelope(t, w, &txs)
		require.Len(t, txs, 4)
		assert.Equal(t, int64(4), resp.Meta.Total)
		assert.Equal(t, "debit", txs[0].Type)
	})

	t.Run("filtered by type", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/wallets/C1/transactions?type=cashback", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var txs []appwallet.TransactionResponse
		envelope(t, w, &txs)
		require.Len(t, txs, 1)
		assert.Equal(t, "50", txs[0].Amount.String())
	})

	t.Run("unknown type", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/wallets/C1/transactions?type=gift", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("summary", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/wallets/C1/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var summary appwallet.SummaryResponse
		envelope(t, w, &summary)
		assert.Equal(t, "100", summary.TotalCredit.String())
		assert.Equal(t, "40", summary.TotalDebit.String())
		assert.Equal(t, "60", summary.Balance.String())
		assert.True(t, summary.Balance.Equal(summary.LedgerBalance))
	})
}
