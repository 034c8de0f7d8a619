package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecolehub/sel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuild_WiresConfiguredLimits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg, err := config.Load(config.New("testdata/missing.env"))
	require.NoError(t, err)
	cfg.Ledger.MaxBalance = 900

	a := build(cfg, db, nil, zap.NewNop())
	assert.Equal(t, int64(900), a.Balances.Limits().MaxBalance)
	assert.Equal(t, int64(-300), a.Balances.Limits().MinBalance)

	router := a.Handler("", time.Second)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
