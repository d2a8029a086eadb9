package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/services/wallet/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockWalletRepository is a mock implementation of repository.WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetUser(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockWalletRepository) Credit(userID string, amount int) error {
	args := m.Called(userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) PurchaseProject(userID string, project *models.Project) (*models.Transaction, error) {
	args := m.Called(userID, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockWalletRepository) GetProject(projectID string) (*models.Project, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockWalletRepository) HasPurchase(userID, projectID string) (bool, error) {
	args := m.Called(userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) CreateTransaction(txn *models.Transaction) error {
	args := m.Called(txn)
	return args.Error(0)
}

func (m *MockWalletRepository) GetTransactions(userID string, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func purchaseRouter(handler *WalletHandler, callerID string) *gin.Engine {
	router := setupTestRouter()
	router.POST("/wallet/purchase/:project_id", func(c *gin.Context) {
		c.Set("user_id", callerID)
		handler.PurchaseProject(c)
	})
	return router
}

func TestGetWallet(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())

	router := setupTestRouter()
	router.GET("/wallet", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		handler.GetWallet(c)
	})

	walletRepo.On("GetUser", "u-1").Return(&models.User{ID: "u-1", Coin: 120}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/wallet", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"coin":120`)
}

func TestPurchaseProject_Success(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "buyer-1")

	project := &models.Project{ID: "p-1", OwnerID: "owner-1", Category: models.CategoryPaid, Price: 30}
	walletRepo.On("GetProject", "p-1").Return(project, nil)
	walletRepo.On("HasPurchase", "buyer-1", "p-1").Return(false, nil)
	walletRepo.On("PurchaseProject", "buyer-1", project).Return(&models.Transaction{
		UserID: "buyer-1", ProjectID: "p-1", Type: models.TransactionTypePurchase,
		Amount: -30, BalanceBefore: 100, BalanceAfter: 70,
	}, nil)

	w := postJSON(router, "/wallet/purchase/p-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance_after":70`)
}

func TestPurchaseProject_FreeProject(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "buyer-1")

	walletRepo.On("GetProject", "p-1").Return(&models.Project{ID: "p-1", Category: models.CategoryFree}, nil)

	w := postJSON(router, "/wallet/purchase/p-1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	walletRepo.AssertNotCalled(t, "PurchaseProject", mock.Anything, mock.Anything)
}

func TestPurchaseProject_OwnProject(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "owner-1")

	walletRepo.On("GetProject", "p-1").Return(&models.Project{ID: "p-1", OwnerID: "owner-1", Category: models.CategoryPaid, Price: 10}, nil)

	w := postJSON(router, "/wallet/purchase/p-1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	walletRepo.AssertNotCalled(t, "PurchaseProject", mock.Anything, mock.Anything)
}

func TestPurchaseProject_AlreadyOwned(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "buyer-1")

	walletRepo.On("GetProject", "p-1").Return(&models.Project{ID: "p-1", OwnerID: "owner-1", Category: models.CategoryPremium, Price: 50}, nil)
	walletRepo.On("HasPurchase", "buyer-1", "p-1").Return(true, nil)

	w := postJSON(router, "/wallet/purchase/p-1", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	walletRepo.AssertNotCalled(t, "PurchaseProject", mock.Anything, mock.Anything)
}

func TestPurchaseProject_InsufficientFunds(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "buyer-1")

	project := &models.Project{ID: "p-1", OwnerID: "owner-1", Category: models.CategoryPaid, Price: 999}
	walletRepo.On("GetProject", "p-1").Return(project, nil)
	walletRepo.On("HasPurchase", "buyer-1", "p-1").Return(false, nil)
	walletRepo.On("PurchaseProject", "buyer-1", project).Return(nil, repository.ErrInsufficientFunds)

	w := postJSON(router, "/wallet/purchase/p-1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient")
}

func TestPurchaseProject_NotFound(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewWalletHandler(walletRepo, nil, logger.New())
	router := purchaseRouter(handler, "buyer-1")

	walletRepo.On("GetProject", "missing").Return(nil, gorm.ErrRecordNotFound)

	w := postJSON(router, "/wallet/purchase/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitiateTopUp_DemoModeOff(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewPaymentHandler(walletRepo, nil, false, logger.New())

	router := setupTestRouter()
	router.POST("/wallet/topup/initiate", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		handler.InitiateTopUp(c)
	})

	w := postJSON(router, "/wallet/topup/initiate", gin.H{"amount": 100})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestVerifyTopUp_DemoModeOff(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	handler := NewPaymentHandler(walletRepo, nil, false, logger.New())

	router := setupTestRouter()
	router.POST("/wallet/topup/verify", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		handler.VerifyTopUp(c)
	})

	w := postJSON(router, "/wallet/topup/verify", gin.H{"order_id": "o-1", "payment_id": "abc"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
}
